package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/pagination"
)

// DateLayout 日期字段统一格式
const DateLayout = "2006-01-02"

// MessageResponse 只有提示信息的响应
type MessageResponse struct {
	Message string `json:"message" example:"操作成功"`
}

// ParseDate 解析YYYY-MM-DD，nil或空串返回nil
// 结果为UTC零点，与数据库date列对齐
func ParseDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, apperrors.ErrInvalidParams.WithField(field, "日期格式应为YYYY-MM-DD")
	}
	return &t, nil
}

// FormatDate 日期格式化，nil返回nil
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}

// FormatPrice 格式化价格(分→元)
// 例如:5900分 → "59.00"
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// PageParams 从query中读取page/per_page，非法值回退到默认值
func PageParams(c *gin.Context) pagination.Params {
	return pagination.ParseParams(c.Query("page"), c.Query("per_page"))
}

// QueryUint 读取可选的正整数query参数，缺省返回0
func QueryUint(c *gin.Context, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, apperrors.ErrInvalidParams.WithField(key, "必须是正整数")
	}
	return uint(v), nil
}

// QueryBool 读取可选的布尔query参数
func QueryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidParams.WithField(key, "必须是true或false")
	}
	return &v, nil
}

// PathID 读取路径中的:id
func PathID(c *gin.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || v == 0 {
		return 0, apperrors.ErrInvalidParams.WithField("id", "必须是正整数")
	}
	return uint(v), nil
}
