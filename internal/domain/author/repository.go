package author

import (
	"context"
)

// Repository 作者仓储接口
// 实现在infrastructure/persistence/rdb
type Repository interface {
	// Create 创建作者
	// 名称冲突（唯一索引）时返回ErrNameDuplicate
	Create(ctx context.Context, author *Author) error

	// FindByID 不存在时返回ErrAuthorNotFound
	FindByID(ctx context.Context, id uint) (*Author, error)

	// FindByName 按名称精确查找，不存在时返回ErrAuthorNotFound
	FindByName(ctx context.Context, name string) (*Author, error)

	// Exists 作者是否存在（Book引用校验使用）
	Exists(ctx context.Context, id uint) (bool, error)

	// Update 更新作者，名称冲突时返回ErrNameDuplicate
	Update(ctx context.Context, author *Author) error

	// Delete 删除作者
	// 仍被图书引用（外键约束）时返回ErrHasBooks
	Delete(ctx context.Context, id uint) error

	// List 分页查询，按id升序
	List(ctx context.Context, params ListParams) ([]*Author, int64, error)

	// CountBooks 统计作者的关联图书数
	CountBooks(ctx context.Context, id uint) (int64, error)
}
