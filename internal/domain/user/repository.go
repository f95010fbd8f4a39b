package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/rdb
type Repository interface {
	// Create 创建用户
	// 用户名或邮箱冲突（唯一索引）时返回ErrUsernameDuplicate/ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在时返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 不存在时返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail 不存在时返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// List 分页查询，按id升序
	List(ctx context.Context, params ListParams) ([]*User, int64, error)
}
