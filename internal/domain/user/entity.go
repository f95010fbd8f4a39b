package user

import (
	"time"

	"github.com/xiebiao/library/pkg/pagination"
)

// User 用户实体（聚合根）
// 说明：
// 1. 用户名、邮箱均唯一（数据库UNIQUE索引兜底）
// 2. Password存储bcrypt哈希值，永远不保存明文
// 3. IsActive=false的账号不能登录，也不能刷新Token
// 4. IsAdmin决定能否访问管理接口（增删改作者、分类、图书，管理用户）
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	IsActive  bool
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法），新用户默认启用、非管理员
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Activate 启用账号
func (u *User) Activate() {
	u.IsActive = true
	u.UpdatedAt = time.Now()
}

// Deactivate 停用账号
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

// RegisterParams 注册参数
type RegisterParams struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ProfileParams 资料修改参数，nil表示不修改
type ProfileParams struct {
	Username *string
	Email    *string
}

// ListParams 管理员用户列表查询参数
type ListParams struct {
	pagination.Params
	Search   string // 用户名/邮箱模糊匹配
	IsActive *bool
}
