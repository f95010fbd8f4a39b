package author

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 作者领域错误定义
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.ErrAuthorNotFound

	// ErrNameDuplicate 作者名称已存在
	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "作者名称已存在").
				WithField("name", "作者名称已存在")

	// ErrHasBooks 作者还有关联图书
	ErrHasBooks = apperrors.New(apperrors.ErrCodeHasDependents, "该作者还有关联图书，无法删除")
)
