package author_test

import (
	"context"
	"strings"
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

func TestAuthorService(t *testing.T) {
	db := rdbtest.Open(t)
	tx := rdb.NewTxManager(db)
	authorRepo := rdb.NewAuthorRepository(db)
	svc := author.NewService(authorRepo, tx)
	ctx := context.Background()

	a, err := svc.Create(ctx, author.CreateParams{Name: "  Ursula K. Le Guin  ", Country: "USA"})
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", a.Name)

	t.Run("校验失败", func(t *testing.T) {
		tomorrow := time.Now().AddDate(0, 0, 1)
		_, err := svc.Create(ctx, author.CreateParams{
			Name:        strings.Repeat("x", 121),
			DateOfBirth: &tomorrow,
		})
		require.Error(t, err)
		fields := apperrors.GetAppError(err).Fields
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "date_of_birth")

		_, err = svc.Create(ctx, author.CreateParams{Name: "   "})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("名称重复", func(t *testing.T) {
		_, err := svc.Create(ctx, author.CreateParams{Name: "Ursula K. Le Guin"})
		assert.ErrorIs(t, err, author.ErrNameDuplicate)
		assert.Contains(t, apperrors.GetAppError(err).Fields, "name")
	})

	t.Run("部分更新", func(t *testing.T) {
		bio := "Earthsea"
		updated, err := svc.Update(ctx, a.ID, author.UpdateParams{Biography: &bio})
		require.NoError(t, err)
		assert.Equal(t, "Earthsea", updated.Biography)
		assert.Equal(t, "USA", updated.Country)

		// 名称不变时不触发唯一性冲突
		name := "Ursula K. Le Guin"
		_, err = svc.Update(ctx, a.ID, author.UpdateParams{Name: &name})
		assert.NoError(t, err)

		_, err = svc.Update(ctx, 999, author.UpdateParams{Biography: &bio})
		assert.ErrorIs(t, err, author.ErrAuthorNotFound)
	})

	t.Run("有图书时不能删除", func(t *testing.T) {
		categories := category.NewService(rdb.NewCategoryRepository(db), tx)
		c, err := categories.Create(ctx, "Fantasy", "")
		require.NoError(t, err)
		books := book.NewService(rdb.NewBookRepository(db), authorRepo, rdb.NewCategoryRepository(db), tx)
		b, err := books.Create(ctx, book.CreateParams{Title: "A Wizard of Earthsea", AuthorID: a.ID, CategoryID: c.ID})
		require.NoError(t, err)

		err = svc.Delete(ctx, a.ID)
		assert.ErrorIs(t, err, author.ErrHasBooks)
		assert.True(t, apperrors.IsValidation(err))

		got, err := svc.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, got.BooksCount)

		require.NoError(t, books.Delete(ctx, b.ID))
		require.NoError(t, svc.Delete(ctx, a.ID))
		_, err = svc.Get(ctx, a.ID)
		assert.ErrorIs(t, err, author.ErrAuthorNotFound)
	})

	t.Run("删除不存在的作者", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, 999), author.ErrAuthorNotFound)
	})

	t.Run("列表按国家过滤", func(t *testing.T) {
		_, err := svc.Create(ctx, author.CreateParams{Name: "Mo Yan", Country: "China"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, author.CreateParams{Name: "Yu Hua", Country: "China"})
		require.NoError(t, err)

		list, total, err := svc.List(ctx, author.ListParams{Params: pagination.New(1, 10), Country: "chi"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Equal(t, "Mo Yan", list[0].Name)
	})
}
