package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建图书
	// 外键约束失败时返回ErrAuthorReferenceNotFound/ErrCategoryReferenceNotFound
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(含作者名、分类名),不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书,不存在返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// List 按条件分页查询,按id升序,返回当前页数据和总数
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// ReferenceChecker 引用存在性校验
// author.Repository和category.Repository都满足此接口
type ReferenceChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}
