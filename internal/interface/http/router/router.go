// Package router 注册HTTP路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/validator"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User     *handler.UserHandler
	Admin    *handler.AdminHandler
	Book     *handler.BookHandler
	Author   *handler.AuthorHandler
	Category *handler.CategoryHandler
}

// New 创建Gin引擎并注册路由
//
// 权限分三级：
//   - 公开：注册、登录、刷新Token、图书查询
//   - 登录用户：个人信息、登出、新增图书、作者/分类查询
//   - 管理员：修改/删除图书，作者/分类增删改，用户管理
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	metrics.InitMetrics()
	validator.Setup()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Logger(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireAdmin()
	rateLimit := limiter.Handler()

	users := api.Group("/users")
	{
		users.POST("/signUp", rateLimit, h.User.SignUp)
		users.POST("/login", rateLimit, h.User.Login)
		users.POST("/refresh", rateLimit, h.User.Refresh)

		users.GET("/profile", requireAuth, h.User.Profile)
		users.PUT("/profile", requireAuth, h.User.UpdateProfile)
		users.POST("/change-password", requireAuth, h.User.ChangePassword)
		users.POST("/logout", requireAuth, h.User.Logout)

		users.GET("", requireAuth, requireAdmin, h.Admin.ListUsers)
		users.POST("/:id/activate", requireAuth, requireAdmin, h.Admin.Activate)
		users.POST("/:id/deactivate", requireAuth, requireAdmin, h.Admin.Deactivate)
	}

	books := api.Group("/books")
	{
		books.GET("", h.Book.List)
		books.GET("/:id", h.Book.Get)
		books.POST("", requireAuth, h.Book.Create)
		books.PATCH("/:id", requireAuth, requireAdmin, h.Book.Update)
		books.DELETE("/:id", requireAuth, requireAdmin, h.Book.Delete)
	}

	authors := api.Group("/authors", requireAuth)
	{
		authors.GET("", h.Author.List)
		authors.GET("/:id", h.Author.Get)
		authors.POST("", requireAdmin, h.Author.Create)
		authors.PATCH("/:id", requireAdmin, h.Author.Update)
		authors.DELETE("/:id", requireAdmin, h.Author.Delete)
	}

	categories := api.Group("/categories", requireAuth)
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", requireAdmin, h.Category.Create)
		categories.PATCH("/:id", requireAdmin, h.Category.Update)
		categories.DELETE("/:id", requireAdmin, h.Category.Delete)
	}

	return r
}
