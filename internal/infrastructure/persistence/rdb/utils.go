package rdb

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/library/pkg/pagination"
)

// isDuplicateError 判断是否为唯一索引冲突
// 各驱动的错误信息：
// - MySQL:    Error 1062: Duplicate entry 'x' for key 'uk_users_email'
// - Postgres: duplicate key value violates unique constraint "uk_users_email"
// - SQLite:   UNIQUE constraint failed: users.email
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyError 判断是否为外键约束失败
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// likePattern 生成不区分大小写的子串匹配参数，配合 LOWER(col) LIKE ? ESCAPE '!' 使用
// 转义用户输入中的通配符，避免搜索"100%"时匹配到所有记录
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

const likeClause = " LIKE ? ESCAPE '!'"

// paginate 分页作用域，统一按id升序保证翻页稳定
func paginate(table string, p pagination.Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id ASC").Limit(p.Limit()).Offset(p.Offset())
	}
}
