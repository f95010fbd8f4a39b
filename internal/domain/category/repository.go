package category

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// Create 名称冲突时返回ErrNameDuplicate
	Create(ctx context.Context, category *Category) error

	// FindByID 不存在时返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindByName 不存在时返回ErrCategoryNotFound
	FindByName(ctx context.Context, name string) (*Category, error)

	Exists(ctx context.Context, id uint) (bool, error)

	// Update 名称冲突时返回ErrNameDuplicate
	Update(ctx context.Context, category *Category) error

	// Delete 仍被图书引用时返回ErrHasBooks
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Category, int64, error)

	CountBooks(ctx context.Context, id uint) (int64, error)
}
