package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/category"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type categoryRow struct {
	CategoryModel
	BooksCount int64
}

const categorySelect = "categories.*, (SELECT COUNT(*) FROM books WHERE books.category_id = categories.id) AS books_count"

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建分类失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	return r.findOne(ctx, "categories.id = ?", id)
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*category.Category, error) {
	return r.findOne(ctx, "categories.name = ?", name)
}

func (r *categoryRepository) findOne(ctx context.Context, query string, arg interface{}) (*category.Category, error) {
	var rows []categoryRow
	err := getDB(ctx, r.db).Table("categories").Select(categorySelect).
		Where(query, arg).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	if len(rows) == 0 {
		return nil, category.ErrCategoryNotFound
	}
	return toCategoryEntity(&rows[0]), nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&CategoryModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询分类失败")
	}
	return count > 0, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "更新分类失败")
	}
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&CategoryModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return category.ErrHasBooks
		}
		return apperrors.Wrap(result.Error, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context, params category.ListParams) ([]*category.Category, int64, error) {
	query := getDB(ctx, r.db).Table("categories")
	if params.Search != "" {
		query = query.Where("LOWER(categories.name)"+likeClause, likePattern(params.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类总数失败")
	}

	var rows []categoryRow
	if err := query.Select(categorySelect).Scopes(paginate("categories", params.Params)).Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类列表失败")
	}

	categories := make([]*category.Category, len(rows))
	for i := range rows {
		categories[i] = toCategoryEntity(&rows[i])
	}
	return categories, total, nil
}

func (r *categoryRepository) CountBooks(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&BookModel{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计分类图书失败")
	}
	return count, nil
}

func toCategoryEntity(row *categoryRow) *category.Category {
	return &category.Category{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		BooksCount:  row.BooksCount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
