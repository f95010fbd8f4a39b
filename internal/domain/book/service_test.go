package book_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/pagination"
)

type fixture struct {
	books    book.Service
	author   *author.Author
	category *category.Category
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := rdbtest.Open(t)
	tx := rdb.NewTxManager(db)
	authorRepo := rdb.NewAuthorRepository(db)
	categoryRepo := rdb.NewCategoryRepository(db)
	ctx := context.Background()

	a, err := author.NewService(authorRepo, tx).Create(ctx, author.CreateParams{Name: "Liu Cixin"})
	require.NoError(t, err)
	c, err := category.NewService(categoryRepo, tx).Create(ctx, "Science Fiction", "")
	require.NoError(t, err)

	return &fixture{
		books:    book.NewService(rdb.NewBookRepository(db), authorRepo, categoryRepo, tx),
		author:   a,
		category: c,
	}
}

func TestBookService_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("引用有效", func(t *testing.T) {
		released := time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)
		b, err := f.books.Create(ctx, book.CreateParams{
			Title:       "The Three-Body Problem",
			Price:       5900,
			Stock:       3,
			ReleaseDate: &released,
			AuthorID:    f.author.ID,
			CategoryID:  f.category.ID,
			Creator:     "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, "Liu Cixin", b.AuthorName)
		assert.Equal(t, "Science Fiction", b.CategoryName)

		got, err := f.books.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "The Three-Body Problem", got.Title)
		assert.EqualValues(t, 5900, got.Price)
		assert.Equal(t, "admin", got.Creator)
	})

	t.Run("未指定创建人", func(t *testing.T) {
		b, err := f.books.Create(ctx, book.CreateParams{Title: "Ball Lightning", Stock: 1, AuthorID: f.author.ID, CategoryID: f.category.ID})
		require.NoError(t, err)
		assert.Equal(t, book.SystemCreator, b.Creator)
	})

	t.Run("作者不存在", func(t *testing.T) {
		_, err := f.books.Create(ctx, book.CreateParams{Title: "Ghost", AuthorID: 999, CategoryID: f.category.ID})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.False(t, apperrors.IsNotFound(err))
		assert.ErrorIs(t, err, book.ErrAuthorReferenceNotFound)
		assert.NotErrorIs(t, err, book.ErrCategoryReferenceNotFound)
		fields := apperrors.GetAppError(err).Fields
		assert.Contains(t, fields, "author_id")
		assert.NotContains(t, fields, "category_id")
	})

	t.Run("分类不存在", func(t *testing.T) {
		_, err := f.books.Create(ctx, book.CreateParams{Title: "Ghost", AuthorID: f.author.ID, CategoryID: 999})
		assert.ErrorIs(t, err, book.ErrCategoryReferenceNotFound)
		assert.NotErrorIs(t, err, book.ErrAuthorReferenceNotFound)
		fields := apperrors.GetAppError(err).Fields
		assert.Contains(t, fields, "category_id")
		assert.NotContains(t, fields, "author_id")
	})

	t.Run("字段校验", func(t *testing.T) {
		future := time.Now().AddDate(0, 1, 0)
		_, err := f.books.Create(ctx, book.CreateParams{
			Title:       "",
			Price:       -1,
			Stock:       -1,
			ReleaseDate: &future,
			AuthorID:    f.author.ID,
			CategoryID:  f.category.ID,
		})
		require.Error(t, err)
		fields := apperrors.GetAppError(err).Fields
		for _, field := range []string{"title", "price", "stock", "release_date"} {
			assert.Contains(t, fields, field)
		}
	})
}

func TestBookService_Update(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b, err := f.books.Create(ctx, book.CreateParams{Title: "Ball Lightning", AuthorID: f.author.ID, CategoryID: f.category.ID})
	require.NoError(t, err)

	stock := 10
	updated, err := f.books.Update(ctx, b.ID, book.UpdateParams{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, "Ball Lightning", updated.Title)

	missing := uint(999)
	_, err = f.books.Update(ctx, b.ID, book.UpdateParams{AuthorID: &missing})
	assert.ErrorIs(t, err, book.ErrAuthorReferenceNotFound)
	assert.NotErrorIs(t, err, book.ErrCategoryReferenceNotFound)

	_, err = f.books.Update(ctx, 999, book.UpdateParams{Stock: &stock})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookService_Pagination(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		_, err := f.books.Create(ctx, book.CreateParams{
			Title:      fmt.Sprintf("Book %02d", i),
			AuthorID:   f.author.ID,
			CategoryID: f.category.ID,
		})
		require.NoError(t, err)
	}

	cases := []struct {
		page, perPage int
		wantFirst     string
		wantLen       int
		wantHasNext   bool
	}{
		{1, 10, "Book 01", 10, true},
		{2, 10, "Book 11", 10, true},
		{3, 10, "Book 21", 5, false},
		{4, 10, "", 0, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page=%d", tc.page), func(t *testing.T) {
			p := pagination.New(tc.page, tc.perPage)
			list, total, err := f.books.List(ctx, book.ListParams{Params: p})
			require.NoError(t, err)
			assert.EqualValues(t, 25, total)
			require.Len(t, list, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, tc.wantFirst, list[0].Title)
			}

			meta := pagination.NewMeta(p, total)
			assert.Equal(t, 3, meta.Pages)
			assert.Equal(t, tc.wantHasNext, meta.HasNext)
		})
	}
}
