package rdb

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 支持的驱动：mysql（生产）、postgres、sqlite（开发与测试默认）
// 连接池参数：
// - MaxOpenConns: 最大打开连接数
// - MaxIdleConns: 最大空闲连接数
// - ConnMaxLifetime: 连接最大存活时间（小于数据库的wait_timeout）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		// sqlite单写者，多连接只会带来database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	slog.Info("数据库连接成功", "driver", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 顺序有要求：books引用authors和categories，必须在它们之后创建
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&AuthorModel{},
		&CategoryModel{},
		&BookModel{},
	)
}

// =========================================
// GORM模型定义
// =========================================
// 说明：
// 1. 模型只在infrastructure层使用，与domain实体通过toXxxEntity转换
// 2. 不使用软删除：唯一索引和外键RESTRICT都依赖真实删除

// UserModel 用户表
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex:uk_users_username;size:50;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex:uk_users_email;size:120;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	IsActive  bool      `gorm:"not null;comment:是否启用"`
	IsAdmin   bool      `gorm:"not null;comment:是否管理员"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// AuthorModel 作者表
type AuthorModel struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"uniqueIndex:uk_authors_name;size:120;not null;comment:作者名"`
	Biography   string     `gorm:"type:text;comment:简介"`
	DateOfBirth *time.Time `gorm:"type:date;comment:出生日期"`
	Country     string     `gorm:"size:80;index;comment:国家"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel 分类表
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex:uk_categories_name;size:120;not null;comment:分类名"`
	Description string `gorm:"type:text;comment:描述"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel 图书表
// Author/Category关联字段只用于让AutoMigrate生成外键（ON DELETE RESTRICT），
// 读写时一律Omit关联，作者名/分类名通过JOIN查询
type BookModel struct {
	ID          uint          `gorm:"primaryKey"`
	Title       string        `gorm:"size:200;not null;index;comment:书名"`
	Description string        `gorm:"type:text;comment:描述"`
	ReleaseDate *time.Time    `gorm:"type:date;index;comment:出版日期"`
	Price       int64         `gorm:"not null;default:0;index;comment:价格(分)"`
	Stock       int           `gorm:"not null;default:0;comment:库存"`
	Creator     string        `gorm:"size:50;comment:创建人"`
	AuthorID    uint          `gorm:"not null;index;comment:作者ID"`
	CategoryID  uint          `gorm:"not null;index;comment:分类ID"`
	Author      AuthorModel   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Category    CategoryModel `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (BookModel) TableName() string {
	return "books"
}
