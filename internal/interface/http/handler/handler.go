// Package handler HTTP处理器
//
// 每个Handler只做三件事：绑定参数、调用用例/领域服务、把结果写成响应。
// 业务错误统一交给response.Error按AppError的错误码转换为HTTP状态码。
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/pkg/response"
	"github.com/xiebiao/library/pkg/validator"
)

// bindJSON 绑定并校验请求体，失败时已写好400响应
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, validator.Translate(err))
		return false
	}
	return true
}
