package main

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	grpcapi "github.com/xiebiao/library/internal/interface/grpc"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
)

// App serve命令需要的全部组件
type App struct {
	Config  *config.Config
	Engine  *gin.Engine
	Health  *grpcapi.HealthService
	Limiter *middleware.RateLimiter
}

// provideDB 数据库连接，cleanup时关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := rdb.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("关闭数据库连接失败", "error", err)
		}
	}
	return db, cleanup, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideUserService 生产环境使用默认bcrypt cost
func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

// provideBookService 作者和分类仓储都实现了ReferenceChecker，需要手动区分
func provideBookService(repo book.Repository, authors author.Repository, categories category.Repository, tx *rdb.TxManager) book.Service {
	return book.NewService(repo, authors, categories, tx)
}

// provideHealthService 健康检查直接ping底层连接池和Redis
func provideHealthService(db *gorm.DB, sessions *redis.SessionStore) (*grpcapi.HealthService, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	return grpcapi.NewHealthService(sqlDB, sessions), nil
}
