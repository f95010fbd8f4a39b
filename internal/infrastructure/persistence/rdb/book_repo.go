package rdb

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRow 图书查询结果(带作者名、分类名)
type bookRow struct {
	BookModel
	AuthorName   string
	CategoryName string
}

const bookSelect = "books.*, authors.name AS author_name, categories.name AS category_name"

// bookRepository 图书仓储实现
// 设计说明:
// 1. 读操作统一LEFT JOIN authors/categories,一次查询带出作者名和分类名
// 2. 写操作Omit关联,避免GORM顺带upsert作者/分类
// 3. 外键约束失败转换为引用不存在的校验错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return referenceError(err)
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var rows []bookRow
	err := r.joined(ctx).Select(bookSelect).Where("books.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	if len(rows) == 0 {
		return nil, book.ErrBookNotFound
	}
	return toBookEntity(&rows[0]), nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := getDB(ctx, r.db).Omit(clause.Associations).Save(model).Error; err != nil {
		if isForeignKeyError(err) {
			return referenceError(err)
		}
		return apperrors.Wrap(err, "更新图书失败")
	}
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 条件分页查询
// 所有条件之间为AND;文本条件不区分大小写,按子串匹配
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	query := r.joined(ctx)

	if params.AuthorID != 0 {
		query = query.Where("books.author_id = ?", params.AuthorID)
	}
	if params.CategoryID != 0 {
		query = query.Where("books.category_id = ?", params.CategoryID)
	}
	if params.Author != "" {
		query = query.Where("LOWER(authors.name)"+likeClause, likePattern(params.Author))
	}
	if params.Category != "" {
		query = query.Where("LOWER(categories.name)"+likeClause, likePattern(params.Category))
	}
	if params.Search != "" {
		p := likePattern(params.Search)
		query = query.Where(
			"(LOWER(books.title)"+likeClause+
				" OR LOWER(books.description)"+likeClause+
				" OR LOWER(authors.name)"+likeClause+
				" OR LOWER(categories.name)"+likeClause+")",
			p, p, p, p,
		)
	}
	if params.Price != nil {
		query = query.Where("books.price = ?", *params.Price)
	}
	if params.ReleaseDate != nil {
		query = query.Where("books.release_date = ?", *params.ReleaseDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	var rows []bookRow
	if err := query.Select(bookSelect).Scopes(paginate("books", params.Params)).Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(rows))
	for i := range rows {
		books[i] = toBookEntity(&rows[i])
	}
	return books, total, nil
}

func (r *bookRepository) joined(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db).Table("books").
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Joins("LEFT JOIN categories ON categories.id = books.category_id")
}

// referenceError MySQL/Postgres的错误信息里带约束名,可以区分是哪个外键;
// SQLite只有"FOREIGN KEY constraint failed",无法区分,返回通用的引用不存在错误
func referenceError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "categor"):
		return book.ErrCategoryReferenceNotFound
	case strings.Contains(msg, "author"):
		return book.ErrAuthorReferenceNotFound
	default:
		return apperrors.ErrReferenceNotFound.WithErr(err)
	}
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		ReleaseDate: b.ReleaseDate,
		Price:       b.Price,
		Stock:       b.Stock,
		Creator:     b.Creator,
		AuthorID:    b.AuthorID,
		CategoryID:  b.CategoryID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookEntity(row *bookRow) *book.Book {
	return &book.Book{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		ReleaseDate:  row.ReleaseDate,
		Price:        row.Price,
		Stock:        row.Stock,
		Creator:      row.Creator,
		AuthorID:     row.AuthorID,
		CategoryID:   row.CategoryID,
		AuthorName:   row.AuthorName,
		CategoryName: row.CategoryName,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
