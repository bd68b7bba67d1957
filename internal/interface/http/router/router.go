// Package router 注册HTTP路由与全局中间件
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/internal/interface/http/handler"
	"github.com/xiebiao/readify/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/readify/pkg/errors"
	"github.com/xiebiao/readify/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Category  *handler.CategoryHandler
	Book      *handler.BookHandler
	Publisher *handler.PublisherHandler
	Author    *handler.AuthorHandler
	Review    *handler.ReviewHandler
	User      *handler.UserHandler
}

// New 创建Gin引擎
// 中间件顺序:RequestLogger → Recovery → Metrics → 路由 → (RequireAuth → RateLimit) → Handler
func New(
	cfg *config.Config,
	log *zap.Logger,
	h Handlers,
	auth *middleware.AuthMiddleware,
	reviewLimiter *middleware.RateLimiter,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/categories", h.Category.List)
		v1.GET("/categories/:id", h.Category.Get)

		v1.GET("/books", h.Book.List)
		v1.GET("/books/:id", h.Book.Get)

		v1.GET("/publishers/:id", h.Publisher.Get)
		v1.GET("/authors/:id", h.Author.Get)

		v1.POST("/reviews", auth.RequireAuth(), reviewLimiter.Middleware(), h.Review.Create)

		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/logout", auth.RequireAuth(), h.User.Logout)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithCode(c, apperrors.ErrCodeNotFound, "接口不存在")
	})

	return r
}
