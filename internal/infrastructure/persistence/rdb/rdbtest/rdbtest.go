// Package rdbtest 测试用数据库
// 每个测试一个独立的sqlite文件，开启外键约束并完成迁移
package rdbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

// Open 打开一个临时sqlite库，测试结束时关闭
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(t.TempDir(), "library.db"),
			AutoMigrate: true,
		},
	}
	db, err := rdb.NewDB(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
