package category

import (
	"time"

	"github.com/xiebiao/library/pkg/pagination"
)

// Category 图书分类（聚合根）
// 名称全局唯一；存在关联图书时禁止删除
type Category struct {
	ID          uint
	Name        string
	Description string
	BooksCount  int64 // 关联图书数（查询时填充）
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateParams 部分更新参数，nil表示不修改
type UpdateParams struct {
	Name        *string
	Description *string
}

// ListParams 列表查询参数
type ListParams struct {
	pagination.Params
	Search string // 名称模糊匹配（不区分大小写）
}
