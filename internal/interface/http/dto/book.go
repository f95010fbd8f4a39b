package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/pagination"
)

// CreateBookRequest 新增图书
// price单位为分；release_date格式YYYY-MM-DD
type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required,max=200" example:"三体"`
	Description string  `json:"description" binding:"max=1000" example:"地球往事三部曲第一部"`
	ReleaseDate *string `json:"release_date" example:"2008-01-01"`
	Price       int64   `json:"price" binding:"min=0" example:"5900"`
	Stock       *int    `json:"stock" binding:"required,min=0" example:"100"`
	AuthorID    uint    `json:"author_id" binding:"required" example:"1"`
	CategoryID  uint    `json:"category_id" binding:"required" example:"1"`
}

// UpdateBookRequest 部分更新，省略的字段不修改
type UpdateBookRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ReleaseDate *string `json:"release_date"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	Stock       *int    `json:"stock" binding:"omitempty,min=0"`
	AuthorID    *uint   `json:"author_id"`
	CategoryID  *uint   `json:"category_id"`
}

// BookResponse 图书
type BookResponse struct {
	ID           uint      `json:"id" example:"1"`
	Title        string    `json:"title" example:"三体"`
	Description  string    `json:"description"`
	ReleaseDate  *string   `json:"release_date" example:"2008-01-01"`
	Price        int64     `json:"price" example:"5900"`             // 价格(分)
	PriceDisplay string    `json:"price_display" example:"59.00"` // 价格(元),方便前端显示
	Stock        int       `json:"stock" example:"100"`
	Creator      string    `json:"creator" example:"admin"`
	AuthorID     uint      `json:"author_id" example:"1"`
	AuthorName   string    `json:"author_name" example:"刘慈欣"`
	CategoryID   uint      `json:"category_id" example:"1"`
	CategoryName string    `json:"category_name" example:"科幻"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BookListResponse 图书列表
type BookListResponse struct {
	Books      []BookResponse  `json:"books"`
	Pagination pagination.Meta `json:"pagination"`
}

// NewBookResponse 领域实体 → 响应
func NewBookResponse(b *book.Book) BookResponse {
	return BookResponse{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		ReleaseDate:  FormatDate(b.ReleaseDate),
		Price:        b.Price,
		PriceDisplay: FormatPrice(b.Price),
		Stock:        b.Stock,
		Creator:      b.Creator,
		AuthorID:     b.AuthorID,
		AuthorName:   b.AuthorName,
		CategoryID:   b.CategoryID,
		CategoryName: b.CategoryName,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// NewBookListResponse 列表响应
func NewBookListResponse(books []*book.Book, meta pagination.Meta) BookListResponse {
	items := make([]BookResponse, len(books))
	for i, b := range books {
		items[i] = NewBookResponse(b)
	}
	return BookListResponse{Books: items, Pagination: meta}
}
