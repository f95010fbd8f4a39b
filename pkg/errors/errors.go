package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用错误
// 设计说明：
// 1. Code是业务错误码，前三位即HTTP状态码（40401 -> 404）
// 2. Message是返回给客户端的提示信息
// 3. Fields是字段级校验错误（仅校验类错误使用）
// 4. Err是内部错误，只写日志，不返回给客户端
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"errors,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 错误码相同且target的字段都出现在e中才匹配
// 预定义错误被WithField/WithErr复制后仍能匹配；
// 同一错误码下用字段区分的错误（用户名重复/邮箱重复）互不匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e.Code != t.Code {
		return false
	}
	for k := range t.Fields {
		if _, ok := e.Fields[k]; !ok {
			return false
		}
	}
	return true
}

// HTTPStatus 由错误码推导HTTP状态码
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// WithField 返回附带字段错误的副本（不修改预定义错误）
func (e *AppError) WithField(field, message string) *AppError {
	cp := *e
	cp.Fields = make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		cp.Fields[k] = v
	}
	cp.Fields[field] = message
	return &cp
}

// WithErr 返回附带内部错误的副本
func (e *AppError) WithErr(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Validation 创建校验错误，fields可为nil
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidParams,
		Message: message,
		Fields:  fields,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码 / 100 = HTTP状态码
// - 400xx: 参数校验、业务规则校验失败
// - 401xx: 认证失败
// - 403xx: 权限不足
// - 404xx: 资源不存在
// - 429xx: 请求过于频繁
// - 500xx: 服务端错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 校验错误（40000-40099）
	ErrCodeInvalidParams     = 40000 // 参数错误(通用)
	ErrCodeDuplicateEntry    = 40001 // 重复记录
	ErrCodeWeakPassword      = 40002 // 密码强度不足
	ErrCodeReferenceNotFound = 40003 // 引用的作者/分类不存在
	ErrCodeHasDependents     = 40004 // 存在关联图书，禁止删除
	ErrCodeBindError         = 40005 // 参数绑定失败
	ErrCodePasswordMismatch  = 40006 // 两次密码不一致
	ErrCodeFutureDate        = 40007 // 日期不能晚于今天

	// 认证错误（40100-40199）
	ErrCodeUnauthorized       = 40100 // 未登录
	ErrCodeInvalidToken       = 40101 // Token无效
	ErrCodeTokenExpired       = 40102 // Token过期
	ErrCodeInvalidCredentials = 40103 // 用户名或密码错误
	ErrCodeAccountInactive    = 40104 // 账号已停用
	ErrCodeTokenRevoked       = 40105 // Token已注销

	// 权限错误（40300-40399）
	ErrCodeForbidden = 40300 // 需要管理员权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound     = 40401 // 用户不存在
	ErrCodeBookNotFound     = 40402 // 图书不存在
	ErrCodeAuthorNotFound   = 40403 // 作者不存在
	ErrCodeCategoryNotFound = 40404 // 分类不存在

	// 限流（42900-42999）
	ErrCodeTooManyRequests = 42900
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证
	ErrUnauthorized       = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "用户名或密码错误")
	ErrAccountInactive    = New(ErrCodeAccountInactive, "账号已停用")
	ErrTokenRevoked       = New(ErrCodeTokenRevoked, "Token已失效，请重新登录")

	// 权限
	ErrForbidden = New(ErrCodeForbidden, "需要管理员权限")

	// 资源不存在
	ErrNotFound         = New(ErrCodeNotFound, "资源不存在")
	ErrUserNotFound     = New(ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound     = New(ErrCodeBookNotFound, "图书不存在")
	ErrAuthorNotFound   = New(ErrCodeAuthorNotFound, "作者不存在")
	ErrCategoryNotFound = New(ErrCodeCategoryNotFound, "分类不存在")

	// 校验
	ErrInvalidParams     = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError         = New(ErrCodeBindError, "参数格式错误")
	ErrDuplicateEntry    = New(ErrCodeDuplicateEntry, "记录已存在")
	ErrWeakPassword      = New(ErrCodeWeakPassword, "密码强度不足（8-128位，需包含大小写字母、数字和特殊字符@$!%*?&）")
	ErrReferenceNotFound = New(ErrCodeReferenceNotFound, "引用的作者或分类不存在")
	ErrHasDependents     = New(ErrCodeHasDependents, "存在关联图书，无法删除")
	ErrPasswordMismatch  = New(ErrCodePasswordMismatch, "两次输入的密码不一致")
	ErrFutureDate        = New(ErrCodeFutureDate, "日期不能晚于今天")

	// 限流
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsValidation 校验类错误（400）
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus() == http.StatusBadRequest
}

// IsNotFound 资源不存在类错误（404）
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus() == http.StatusNotFound
}

// IsAuthentication 认证类错误（401）
func IsAuthentication(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus() == http.StatusUnauthorized
}
