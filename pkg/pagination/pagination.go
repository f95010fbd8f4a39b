// Package pagination 分页参数与分页元数据
//
// 规则：
//   - page < 1 时取默认值1
//   - per_page 不在 [1, 100] 区间时取默认值10
//   - 非法输入一律回退到默认值，不报错
//   - 页码超出范围时返回空列表，has_next=false
//   - page 上限为 MaxPage，保证 (page-1)*per_page 不溢出
package pagination

import (
	"errors"
	"math"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100

	// MaxPage 超过该值的页码按MaxPage处理，结果仍是空列表
	MaxPage = math.MaxInt / MaxPerPage
)

// Params 分页参数（已归一化）
type Params struct {
	Page    int
	PerPage int
}

// New 归一化分页参数
func New(page, perPage int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// ParseParams 从query字符串解析分页参数，无法解析的值按默认值处理
func ParseParams(page, perPage string) Params {
	// 超出int范围的数字页码按最大页处理，不能回退到第1页
	p, err := strconv.Atoi(page)
	if err != nil && !(errors.Is(err, strconv.ErrRange) && p > 0) {
		p = DefaultPage
	}
	pp, err := strconv.Atoi(perPage)
	if err != nil {
		pp = DefaultPerPage
	}
	return New(p, pp)
}

// Offset SQL OFFSET
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit SQL LIMIT
func (p Params) Limit() int {
	return p.PerPage
}

// Meta 列表响应中的分页信息
type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
	NextNum *int  `json:"next_num"`
	PrevNum *int  `json:"prev_num"`
}

// NewMeta 根据总数计算分页信息
func NewMeta(p Params, total int64) Meta {
	pages := int(total / int64(p.PerPage))
	if total%int64(p.PerPage) != 0 {
		pages++
	}

	m := Meta{
		Page:    p.Page,
		PerPage: p.PerPage,
		Total:   total,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
	if m.HasNext {
		next := p.Page + 1
		m.NextNum = &next
	}
	if m.HasPrev {
		prev := p.Page - 1
		m.PrevNum = &prev
	}
	return m
}
