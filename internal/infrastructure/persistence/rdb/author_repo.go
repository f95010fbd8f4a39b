package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/author"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// authorRow 作者查询结果（附带关联图书数）
type authorRow struct {
	AuthorModel
	BooksCount int64
}

const authorSelect = "authors.*, (SELECT COUNT(*) FROM books WHERE books.author_id = authors.id) AS books_count"

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) author.Repository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, a *author.Author) error {
	model := toAuthorModel(a)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return author.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建作者失败")
	}
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *authorRepository) FindByID(ctx context.Context, id uint) (*author.Author, error) {
	return r.findOne(ctx, "authors.id = ?", id)
}

func (r *authorRepository) FindByName(ctx context.Context, name string) (*author.Author, error) {
	return r.findOne(ctx, "authors.name = ?", name)
}

func (r *authorRepository) findOne(ctx context.Context, query string, arg interface{}) (*author.Author, error) {
	var rows []authorRow
	err := getDB(ctx, r.db).Table("authors").Select(authorSelect).
		Where(query, arg).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}
	if len(rows) == 0 {
		return nil, author.ErrAuthorNotFound
	}
	return toAuthorEntity(&rows[0]), nil
}

func (r *authorRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&AuthorModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询作者失败")
	}
	return count > 0, nil
}

func (r *authorRepository) Update(ctx context.Context, a *author.Author) error {
	model := toAuthorModel(a)
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return author.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "更新作者失败")
	}
	a.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&AuthorModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return author.ErrHasBooks
		}
		return apperrors.Wrap(result.Error, "删除作者失败")
	}
	if result.RowsAffected == 0 {
		return author.ErrAuthorNotFound
	}
	return nil
}

func (r *authorRepository) List(ctx context.Context, params author.ListParams) ([]*author.Author, int64, error) {
	query := getDB(ctx, r.db).Table("authors")
	if params.Search != "" {
		query = query.Where("LOWER(authors.name)"+likeClause, likePattern(params.Search))
	}
	if params.Country != "" {
		query = query.Where("LOWER(authors.country)"+likeClause, likePattern(params.Country))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者总数失败")
	}

	var rows []authorRow
	if err := query.Select(authorSelect).Scopes(paginate("authors", params.Params)).Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者列表失败")
	}

	authors := make([]*author.Author, len(rows))
	for i := range rows {
		authors[i] = toAuthorEntity(&rows[i])
	}
	return authors, total, nil
}

func (r *authorRepository) CountBooks(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&BookModel{}).Where("author_id = ?", id).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计作者图书失败")
	}
	return count, nil
}

func toAuthorModel(a *author.Author) *AuthorModel {
	return &AuthorModel{
		ID:          a.ID,
		Name:        a.Name,
		Biography:   a.Biography,
		DateOfBirth: a.DateOfBirth,
		Country:     a.Country,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAuthorEntity(row *authorRow) *author.Author {
	return &author.Author{
		ID:          row.ID,
		Name:        row.Name,
		Biography:   row.Biography,
		DateOfBirth: row.DateOfBirth,
		Country:     row.Country,
		BooksCount:  row.BooksCount,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

