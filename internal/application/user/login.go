package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证用户名（或邮箱）与密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	store       TokenStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, store TokenStore) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		store:       store,
	}
}

// LoginRequest 登录请求，Login可以是用户名或邮箱
type LoginRequest struct {
	Login    string
	Password string
	ClientIP string
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (_ *AuthResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "usecase.Login")
	defer func() { tracing.End(span, err) }()

	u, err := uc.userService.Authenticate(ctx, req.Login, req.Password)
	metrics.IncCounterVec(metrics.LoginAttemptsTotal, map[string]string{"result": loginResult(err)})
	if err != nil {
		slog.InfoContext(ctx, "登录失败", "login", req.Login, "ip", req.ClientIP, "reason", loginResult(err))
		return nil, err
	}

	return issueTokens(ctx, uc.jwtManager, uc.store, u, req.ClientIP)
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, user.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, user.ErrAccountInactive):
		return "inactive"
	default:
		return "error"
	}
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager *jwt.Manager
	store      TokenStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, store TokenStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, store: store}
}

// LogoutRequest 登出请求
// Access为认证中间件解析出的当前Token；RefreshToken可选，提供时一并撤销
type LogoutRequest struct {
	Access       *jwt.Claims
	RefreshToken string
}

// Execute 执行登出
// 1. 撤销当前Access Token（TTL=剩余有效期）
// 2. 撤销Refresh Token（只接受属于当前用户的有效Refresh Token，其余忽略）
// 3. 删除会话
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	now := uc.jwtManager.Now()

	if err := uc.store.Revoke(ctx, req.Access.ID, req.Access.Remaining(now)); err != nil {
		return err
	}
	metrics.IncCounterVec(metrics.TokensRevokedTotal, map[string]string{"type": string(jwt.TokenTypeAccess)})

	if req.RefreshToken != "" {
		claims, err := uc.jwtManager.ParseToken(req.RefreshToken, jwt.TokenTypeRefresh)
		if err == nil && claims.UserID == req.Access.UserID {
			if err := uc.store.Revoke(ctx, claims.ID, claims.Remaining(now)); err != nil {
				return err
			}
			metrics.IncCounterVec(metrics.TokensRevokedTotal, map[string]string{"type": string(jwt.TokenTypeRefresh)})
		}
	}

	return uc.store.DeleteSession(ctx, req.Access.UserID)
}
