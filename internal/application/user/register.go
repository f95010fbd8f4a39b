package user

import (
	"context"
	"log/slog"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/metrics"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. 校验与持久化由领域服务完成
// 2. 注册成功后直接签发Token对，用户无需再登录一次
type RegisterUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	store       TokenStore
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, jwtManager *jwt.Manager, store TokenStore) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		store:       store,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	ClientIP        string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	u, err := uc.userService.Register(ctx, user.RegisterParams{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return nil, err
	}
	metrics.IncCounter(metrics.UsersRegisteredTotal)

	return issueTokens(ctx, uc.jwtManager, uc.store, u, req.ClientIP)
}

// issueTokens 签发Token对并记录会话
// 会话只用于审计和统计，保存失败不影响注册/登录
func issueTokens(ctx context.Context, m *jwt.Manager, store TokenStore, u *user.User, clientIP string) (*AuthResponse, error) {
	pair, err := m.GenerateTokenPair(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, err
	}

	session := map[string]interface{}{
		"username": u.Username,
		"login_at": m.Now().Unix(),
		"ip":       clientIP,
	}
	if err := store.SaveSession(ctx, u.ID, session, m.RefreshTokenExpire()); err != nil {
		slog.WarnContext(ctx, "保存会话失败", "user_id", u.ID, "error", err)
	}

	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         NewUserInfo(u),
	}, nil
}
