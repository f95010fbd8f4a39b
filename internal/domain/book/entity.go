package book

import (
	"time"

	"github.com/xiebiao/library/pkg/pagination"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. 通过AuthorID/CategoryID引用作者和分类(外键),创建和修改时校验引用存在
// 3. Creator记录创建人用户名
type Book struct {
	ID           uint
	Title        string
	Description  string
	ReleaseDate  *time.Time // 出版日期(可为空,不能晚于今天)
	Price        int64      // 价格(单位:分)
	Stock        int        // 库存
	Creator      string
	AuthorID     uint
	CategoryID   uint
	AuthorName   string // 查询时填充
	CategoryName string // 查询时填充
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams 创建图书参数
type CreateParams struct {
	Title       string
	Description string
	ReleaseDate *time.Time
	Price       int64
	Stock       int
	AuthorID    uint
	CategoryID  uint
	Creator     string
}

// UpdateParams 部分更新参数,nil表示不修改
type UpdateParams struct {
	Title       *string
	Description *string
	ReleaseDate *time.Time
	Price       *int64
	Stock       *int
	AuthorID    *uint
	CategoryID  *uint
}

// ListParams 列表查询参数,所有条件之间为AND关系
type ListParams struct {
	pagination.Params
	AuthorID    uint       // 作者ID精确匹配
	CategoryID  uint       // 分类ID精确匹配
	Author      string     // 作者名模糊匹配(不区分大小写)
	Category    string     // 分类名模糊匹配(不区分大小写)
	Search      string     // 标题/描述/作者名/分类名模糊匹配
	Price       *int64     // 价格精确匹配(分)
	ReleaseDate *time.Time // 出版日期精确匹配
}

// UpdateStock 更新库存(领域行为)
// 业务规则:库存不能为负数
func (b *Book) UpdateStock(newStock int) error {
	if newStock < 0 {
		return ErrInvalidStock
	}
	b.Stock = newStock
	b.UpdatedAt = time.Now()
	return nil
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格不能为负数(允许0,表示免费)
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice < 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}
