package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ErrorBody 错误响应结构
// 设计说明：
// 1. Error是用户友好的提示信息
// 2. Code是业务错误码，方便客户端区分同一状态码下的不同原因
// 3. Errors是字段级校验错误，只在400校验失败时返回
type ErrorBody struct {
	Error  string            `json:"error"`
	Code   int               `json:"code"`
	Errors map[string]string `json:"errors,omitempty"`
}

// OK 200响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := h.bookService.Get(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 5xx：内部细节只写日志，客户端只拿到通用提示
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", appErr.Error(),
			"request_id", c.GetString("request_id"),
		)
		c.JSON(status, ErrorBody{
			Error: apperrors.ErrInternal.Message,
			Code:  appErr.Code,
		})
		return
	}

	c.JSON(status, ErrorBody{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Errors: appErr.Fields,
	})
}

// Abort 写错误响应并终止后续Handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
