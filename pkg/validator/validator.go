// Package validator gin参数绑定错误的翻译
//
// gin的binding标签由go-playground/validator校验，默认错误信息形如
// "Key: 'SignUpRequest.Username' Error:Field validation for 'Username' failed on the 'required' tag"，
// 这里转换成 {"username": "不能为空"} 这样的字段级错误。
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var setupOnce sync.Once

// Setup 让校验错误使用json/form标签名作为字段名，可重复调用
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Translate 把绑定错误转换为AppError
// - validator.ValidationErrors → 400，带字段错误
// - JSON类型不匹配 → 400，带字段错误
// - 其他（请求体不是合法JSON等） → 400 参数格式错误
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			if _, ok := fields[fe.Field()]; !ok {
				fields[fe.Field()] = message(fe)
			}
		}
		return apperrors.Validation("参数校验失败", fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.Validation("参数校验失败", map[string]string{
			typeErr.Field: fmt.Sprintf("类型错误，应为%s", typeErr.Type.Kind()),
		})
	}

	return apperrors.ErrBindError.WithErr(err)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min":
		if isNumber(fe.Kind()) {
			return "不能小于" + fe.Param()
		}
		return "长度不能少于" + fe.Param() + "个字符"
	case "max":
		if isNumber(fe.Kind()) {
			return "不能大于" + fe.Param()
		}
		return "长度不能超过" + fe.Param() + "个字符"
	case "gt":
		return "必须大于" + fe.Param()
	case "datetime":
		return "日期格式应为" + fe.Param()
	case "oneof":
		return "取值必须是以下之一: " + fe.Param()
	default:
		return "校验失败(" + fe.Tag() + ")"
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
