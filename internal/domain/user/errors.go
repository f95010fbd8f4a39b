package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound = apperrors.ErrUserNotFound

	ErrUsernameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "用户名已存在").
				WithField("username", "用户名已存在")

	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "邮箱已被注册").
				WithField("email", "邮箱已被注册")

	// ErrInvalidCredentials 用户不存在和密码错误使用同一个错误，避免枚举用户名
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials

	ErrAccountInactive = apperrors.ErrAccountInactive

	// ErrCurrentPasswordWrong 修改密码时原密码错误
	ErrCurrentPasswordWrong = apperrors.New(apperrors.ErrCodeInvalidCredentials, "原密码错误")
)
