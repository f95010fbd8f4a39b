package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在(404)
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrAuthorReferenceNotFound 引用的作者不存在(400,与图书不存在区分)
	ErrAuthorReferenceNotFound = apperrors.ErrReferenceNotFound.WithField("author_id", "引用的作者不存在")

	// ErrCategoryReferenceNotFound 引用的分类不存在(400)
	ErrCategoryReferenceNotFound = apperrors.ErrReferenceNotFound.WithField("category_id", "引用的分类不存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.ErrInvalidParams.WithField("price", "价格不能为负数")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.ErrInvalidParams.WithField("stock", "库存不能为负数")
)
