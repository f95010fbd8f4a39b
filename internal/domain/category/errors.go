package category

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 分类领域错误定义
var (
	ErrCategoryNotFound = apperrors.ErrCategoryNotFound

	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名称已存在").
				WithField("name", "分类名称已存在")

	ErrHasBooks = apperrors.New(apperrors.ErrCodeHasDependents, "该分类下还有图书，无法删除")
)
