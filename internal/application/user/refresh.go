package user

import (
	"context"
	"errors"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// RefreshUseCase 刷新Access Token
// 规则：
// 1. 只接受type=refresh的Token，过期或签名错误返回401
// 2. 已撤销（登出）的Refresh Token返回401
// 3. 用户必须存在且处于启用状态；用户名和管理员标记取数据库最新值
type RefreshUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	store       TokenStore
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(userService user.Service, jwtManager *jwt.Manager, store TokenStore) *RefreshUseCase {
	return &RefreshUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		store:       store,
	}
}

// Execute 执行刷新
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseToken(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	// Redis不可用时这里返回500，不放行
	revoked, err := uc.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	u, err := uc.userService.Get(ctx, claims.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, user.ErrAccountInactive
	}

	access, err := uc.jwtManager.GenerateAccessToken(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{
		AccessToken: access,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenExpire().Seconds()),
	}, nil
}
