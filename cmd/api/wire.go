//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后重新生成：
//
//	wire gen ./cmd/api
package main

import (
	"github.com/google/wire"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/author"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis
var infrastructureSet = wire.NewSet(
	provideDB,
	redis.NewClient,
	redis.NewBreaker,
	redis.NewSessionStore,
	wire.Bind(new(appuser.TokenStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.RevocationChecker), new(*redis.SessionStore)),
)

// repositorySet 仓储与事务
var repositorySet = wire.NewSet(
	rdb.NewUserRepository,
	rdb.NewAuthorRepository,
	rdb.NewCategoryRepository,
	rdb.NewBookRepository,
	rdb.NewTxManager,
	wire.Bind(new(shared.Transactor), new(*rdb.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	author.NewService,
	category.NewService,
	provideBookService,
)

// applicationSet 用户相关用例
var applicationSet = wire.NewSet(
	provideJWTManager,
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewRefreshUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewProfileUseCase,
	appuser.NewAdminUseCase,
)

// interfaceSet HTTP处理器、中间件、路由和gRPC健康检查
var interfaceSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewAdminHandler,
	handler.NewBookHandler,
	handler.NewAuthorHandler,
	handler.NewCategoryHandler,
	wire.Struct(new(router.Handlers), "*"),
	middleware.NewAuthMiddleware,
	middleware.NewRateLimiter,
	router.New,
	provideHealthService,
)

// InitializeApp 组装serve命令需要的全部组件
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeUserService 命令行用户管理只需要数据库
func InitializeUserService(cfg *config.Config) (user.Service, func(), error) {
	wire.Build(
		provideDB,
		rdb.NewUserRepository,
		provideUserService,
	)
	return nil, nil, nil
}
