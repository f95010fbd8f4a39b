package rdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestReferenceError(t *testing.T) {
	cases := []struct {
		name  string
		msg   string
		want  error
		field string
	}{
		{"MySQL作者外键", "Error 1452: Cannot add or update a child row: a foreign key constraint fails (`library`.`books`, CONSTRAINT `fk_books_author`)", book.ErrAuthorReferenceNotFound, "author_id"},
		{"Postgres分类外键", `insert or update on table "books" violates foreign key constraint "fk_books_category"`, book.ErrCategoryReferenceNotFound, "category_id"},
		{"SQLite无约束名", "FOREIGN KEY constraint failed", apperrors.ErrReferenceNotFound, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := referenceError(errors.New(c.msg))
			assert.ErrorIs(t, err, c.want)
			assert.True(t, apperrors.IsValidation(err))

			fields := apperrors.GetAppError(err).Fields
			if c.field == "" {
				assert.Empty(t, fields)
				return
			}
			assert.Len(t, fields, 1)
			assert.Contains(t, fields, c.field)
		})
	}
}
