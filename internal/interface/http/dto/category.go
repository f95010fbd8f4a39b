package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/pkg/pagination"
)

// CreateCategoryRequest 新增分类
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=120" example:"科幻"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateCategoryRequest 部分更新
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// CategoryResponse 分类
type CategoryResponse struct {
	ID          uint      `json:"id" example:"1"`
	Name        string    `json:"name" example:"科幻"`
	Description string    `json:"description"`
	BooksCount  int64     `json:"books_count" example:"12"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse 分类列表
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Pagination pagination.Meta    `json:"pagination"`
}

func NewCategoryResponse(c *category.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		BooksCount:  c.BooksCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewCategoryListResponse(categories []*category.Category, meta pagination.Meta) CategoryListResponse {
	items := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = NewCategoryResponse(c)
	}
	return CategoryListResponse{Categories: items, Pagination: meta}
}
