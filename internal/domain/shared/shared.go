// Package shared 各聚合共用的领域工具：事务接口、字段校验错误收集、日期规则
package shared

import (
	"context"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Transactor 事务接口（由infrastructure层实现）
// fn内使用传入的ctx调用Repository，即可共享同一个事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// FieldErrors 收集字段级校验错误
//
//	errs := shared.FieldErrors{}
//	errs.Check(name == "", "name", "名称不能为空")
//	if err := errs.Err(); err != nil {
//	    return nil, err
//	}
type FieldErrors map[string]string

// Add 记录字段错误（同一字段只保留第一条）
func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// Check cond为true时记录错误
func (f FieldErrors) Check(cond bool, field, message string) {
	if cond {
		f.Add(field, message)
	}
}

// Err 没有错误时返回nil
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.Validation("参数校验失败", map[string]string(f))
}

// Len 按字符（而非字节）计算长度，中文名称也按1个字符计
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// IsFutureDate 日期是否晚于今天（按日期比较，忽略时分秒）
func IsFutureDate(d *time.Time, now time.Time) bool {
	if d == nil {
		return false
	}
	y, m, day := now.Date()
	tomorrow := time.Date(y, m, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	dy, dm, dd := d.Date()
	return !time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location()).Before(tomorrow)
}
