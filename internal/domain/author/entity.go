package author

import (
	"time"

	"github.com/xiebiao/library/pkg/pagination"
)

// Author 作者实体（聚合根）
// 说明：
// 1. 名称全局唯一（数据库UNIQUE索引兜底）
// 2. 与Book是一对多关系，Book通过author_id引用Author
// 3. 存在关联图书时禁止删除（不做级联删除）
type Author struct {
	ID          uint
	Name        string
	Biography   string
	DateOfBirth *time.Time // 可为空，不能晚于今天
	Country     string
	BooksCount  int64 // 关联图书数（查询时填充，不持久化）
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams 创建作者参数
type CreateParams struct {
	Name        string
	Biography   string
	DateOfBirth *time.Time
	Country     string
}

// UpdateParams 部分更新参数，nil表示不修改
type UpdateParams struct {
	Name        *string
	Biography   *string
	DateOfBirth *time.Time
	Country     *string
}

// ListParams 列表查询参数
type ListParams struct {
	pagination.Params
	Search  string // 名称模糊匹配（不区分大小写）
	Country string // 国家模糊匹配（不区分大小写）
}

// apply 把更新参数应用到实体上
func (a *Author) apply(p UpdateParams) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Biography != nil {
		a.Biography = *p.Biography
	}
	if p.DateOfBirth != nil {
		a.DateOfBirth = p.DateOfBirth
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	a.UpdatedAt = time.Now()
}
