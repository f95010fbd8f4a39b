package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/pagination"
)

// ProfileUseCase 当前用户资料
type ProfileUseCase struct {
	userService user.Service
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userService user.Service) *ProfileUseCase {
	return &ProfileUseCase{userService: userService}
}

// Get 获取资料
func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(u)
	return &info, nil
}

// UpdateRequest 修改资料请求，nil表示不修改
type UpdateRequest struct {
	Username *string
	Email    *string
}

// Update 修改用户名/邮箱
// 已签发的Token中的username在刷新后才会更新
func (uc *ProfileUseCase) Update(ctx context.Context, userID uint, req UpdateRequest) (*UserInfo, error) {
	u, err := uc.userService.UpdateProfile(ctx, userID, user.ProfileParams{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(u)
	return &info, nil
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ChangePassword 修改密码
func (uc *ProfileUseCase) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	return uc.userService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
}

// AdminUseCase 管理员用户管理
type AdminUseCase struct {
	userService user.Service
}

// NewAdminUseCase 创建用户管理用例
func NewAdminUseCase(userService user.Service) *AdminUseCase {
	return &AdminUseCase{userService: userService}
}

// ListRequest 用户列表请求
type ListRequest struct {
	Params   pagination.Params
	Search   string
	IsActive *bool
}

// List 用户列表
func (uc *AdminUseCase) List(ctx context.Context, req ListRequest) ([]UserInfo, pagination.Meta, error) {
	users, total, err := uc.userService.List(ctx, user.ListParams{
		Params:   req.Params,
		Search:   req.Search,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	items := make([]UserInfo, len(users))
	for i, u := range users {
		items[i] = NewUserInfo(u)
	}
	return items, pagination.NewMeta(req.Params, total), nil
}

// SetActive 启用/停用账号
// 停用后已签发的Token仍然有效，但刷新会被拒绝
func (uc *AdminUseCase) SetActive(ctx context.Context, userID uint, active bool) (*UserInfo, error) {
	u, err := uc.userService.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}
	info := NewUserInfo(u)
	return &info, nil
}
