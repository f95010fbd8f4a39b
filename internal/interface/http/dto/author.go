package dto

import (
	"time"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/pkg/pagination"
)

// CreateAuthorRequest 新增作者
type CreateAuthorRequest struct {
	Name        string  `json:"name" binding:"required,max=120" example:"刘慈欣"`
	Biography   string  `json:"biography" binding:"max=2000"`
	DateOfBirth *string `json:"date_of_birth" example:"1963-06-23"`
	Country     string  `json:"country" binding:"max=80" example:"中国"`
}

// UpdateAuthorRequest 部分更新
type UpdateAuthorRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=120"`
	Biography   *string `json:"biography" binding:"omitempty,max=2000"`
	DateOfBirth *string `json:"date_of_birth"`
	Country     *string `json:"country" binding:"omitempty,max=80"`
}

// AuthorResponse 作者
type AuthorResponse struct {
	ID          uint      `json:"id" example:"1"`
	Name        string    `json:"name" example:"刘慈欣"`
	Biography   string    `json:"biography"`
	DateOfBirth *string   `json:"date_of_birth" example:"1963-06-23"`
	Country     string    `json:"country" example:"中国"`
	BooksCount  int64     `json:"books_count" example:"3"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthorListResponse 作者列表
type AuthorListResponse struct {
	Authors    []AuthorResponse `json:"authors"`
	Pagination pagination.Meta  `json:"pagination"`
}

func NewAuthorResponse(a *author.Author) AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		Biography:   a.Biography,
		DateOfBirth: FormatDate(a.DateOfBirth),
		Country:     a.Country,
		BooksCount:  a.BooksCount,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func NewAuthorListResponse(authors []*author.Author, meta pagination.Meta) AuthorListResponse {
	items := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		items[i] = NewAuthorResponse(a)
	}
	return AuthorListResponse{Authors: items, Pagination: meta}
}
