package dto

import (
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/pkg/pagination"
)

// SignUpRequest 注册请求
// 格式和密码强度在领域层校验，这里只保证字段存在
type SignUpRequest struct {
	Username        string `json:"username" binding:"required" example:"john_doe"`
	Email           string `json:"email" binding:"required" example:"john@example.com"`
	Password        string `json:"password" binding:"required" example:"Abc12345!"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"Abc12345!"`
}

// LoginRequest 登录请求，username可以填用户名或邮箱
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"john_doe"`
	Password string `json:"password" binding:"required" example:"Abc12345!"`
}

// UpdateProfileRequest 修改资料，省略的字段不修改
type UpdateProfileRequest struct {
	Username *string `json:"username" example:"john_new"`
	Email    *string `json:"email" example:"john_new@example.com"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" example:"Abc12345!"`
	NewPassword     string `json:"new_password" binding:"required" example:"Xyz98765?"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"Xyz98765?"`
}

// LogoutRequest 登出，refresh_token可选
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserListResponse 用户列表
type UserListResponse struct {
	Users      []appuser.UserInfo `json:"users"`
	Pagination pagination.Meta    `json:"pagination"`
}
