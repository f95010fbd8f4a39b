package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpire)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n")
	t.Setenv("LIBRARY_DATABASE_DRIVER", "postgres")
	t.Setenv("LIBRARY_JWT_ACCESS_TOKEN_EXPIRE", "5m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpire)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("不支持的驱动", func(t *testing.T) {
		_, err := Load(writeConfig(t, "database:\n  driver: oracle\n"))
		assert.Error(t, err)
	})

	t.Run("生产环境使用默认密钥", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server:\n  mode: release\n"))
		assert.Error(t, err)
	})

	t.Run("刷新Token有效期短于访问Token", func(t *testing.T) {
		_, err := Load(writeConfig(t, "jwt:\n  access_token_expire: 2h\n  refresh_token_expire: 1h\n"))
		assert.Error(t, err)
	})

	t.Run("指定的配置文件不存在", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Driver: "mysql", User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "library", Charset: "utf8mb4", Loc: "Local"}
	assert.Equal(t, "root:pw@tcp(db:3306)/library?charset=utf8mb4&parseTime=true&loc=Local", d.DSN())

	d = DatabaseConfig{Driver: "postgres", User: "u", Password: "p", Host: "h", Port: 5432, DBName: "library", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=library sslmode=disable", d.DSN())

	d = DatabaseConfig{Driver: "sqlite", Path: "/tmp/x.db"}
	assert.Contains(t, d.DSN(), "_foreign_keys=on")
}
