package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/readify/internal/application/book"
	appcategory "github.com/xiebiao/readify/internal/application/category"
	"github.com/xiebiao/readify/internal/application/port"
	"github.com/xiebiao/readify/internal/application/presenter"
	appuser "github.com/xiebiao/readify/internal/application/user"
	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/internal/domain/category"
	"github.com/xiebiao/readify/internal/domain/review"
	"github.com/xiebiao/readify/internal/domain/user"
	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/internal/infrastructure/messaging"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/redis"
	grpcapi "github.com/xiebiao/readify/internal/interface/grpc"
	"github.com/xiebiao/readify/internal/interface/http/middleware"
	"github.com/xiebiao/readify/pkg/jwt"
	"github.com/xiebiao/readify/pkg/mq"
)

// App 进程内需要启动和关闭的组件
type App struct {
	Config *config.Config
	Engine *gin.Engine
	Health *grpcapi.HealthServer // grpc.health_port为0时为nil
}

// 自定义Provider
// Redis与MQ都是可降级依赖:未启用或连接失败时使用Nop实现,服务照常启动

// provideRedisClient 未启用或连接失败时返回nil
func provideRedisClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*goredis.Client, func()) {
	if !cfg.Redis.Enabled {
		log.Info("Redis未启用,缓存与会话功能关闭")
		return nil, func() {}
	}

	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		log.Warn("Redis不可用,降级为直接读库", zap.Error(err))
		return nil, func() {}
	}
	return client, func() {
		if err := client.Close(); err != nil {
			log.Warn("关闭Redis连接失败", zap.Error(err))
		}
	}
}

func provideDocumentCache(client *goredis.Client, log *zap.Logger) port.DocumentCache {
	if client == nil {
		return port.NopCache{}
	}
	return redis.NewCacheStore(client, log)
}

// provideSessionStore 注意返回无类型nil,避免接口持有nil指针
func provideSessionStore(client *goredis.Client) appuser.SessionStore {
	if client == nil {
		return nil
	}
	return redis.NewSessionStore(client)
}

func provideTokenBlacklist(client *goredis.Client) middleware.TokenBlacklist {
	if client == nil {
		return nil
	}
	return redis.NewSessionStore(client)
}

// provideEventPublisher 未启用或连接失败时返回NopPublisher
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (port.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return port.NopPublisher{}, func() {}
	}

	broker, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		log.Warn("RabbitMQ不可用,评论事件将不会发布", zap.Error(err))
		return port.NopPublisher{}, func() {}
	}
	return messaging.NewEventPublisher(broker, log), func() {
		if err := broker.Close(); err != nil {
			log.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideTreeFetcher(cfg *config.Config, repo category.Repository) *category.TreeFetcher {
	return category.NewTreeFetcher(repo, cfg.Catalog.CategoryMaxDepth)
}

func providePresenter(cfg *config.Config, repo category.Repository) *presenter.Presenter {
	return presenter.New(cfg.Catalog.MediaURL, repo)
}

func provideBookService(
	cfg *config.Config,
	books book.Repository,
	publishers book.PublisherRepository,
	authors book.AuthorRepository,
) book.Service {
	return book.NewService(books, publishers, authors, book.Paging{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
	})
}

func provideListCategoriesUseCase(
	cfg *config.Config,
	fetcher *category.TreeFetcher,
	p *presenter.Presenter,
	cache port.DocumentCache,
	log *zap.Logger,
) *appcategory.ListCategoriesUseCase {
	return appcategory.NewListCategoriesUseCase(fetcher, p, cache, cfg.Cache.CategoryTreeTTL, log)
}

func provideGetBookDetailUseCase(
	cfg *config.Config,
	bookService book.Service,
	p *presenter.Presenter,
	cache port.DocumentCache,
	log *zap.Logger,
) *appbook.GetBookDetailUseCase {
	return appbook.NewGetBookDetailUseCase(bookService, p, cache, cfg.Cache.BookDetailTTL, log)
}

func provideLoginUseCase(
	cfg *config.Config,
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions appuser.SessionStore,
	log *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessions, cfg.JWT.RefreshTokenExpire, log)
}

func provideReviewLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimit.ReviewRPS, cfg.RateLimit.ReviewBurst)
}

// provideHealthServer 数据库为必选依赖,Redis为可降级依赖
func provideHealthServer(cfg *config.Config, db *gorm.DB, client *goredis.Client, log *zap.Logger) *grpcapi.HealthServer {
	if cfg.GRPC.HealthPort == 0 {
		return nil
	}

	required := map[string]grpcapi.Checker{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	optional := map[string]grpcapi.Checker{}
	if client != nil {
		optional["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return grpcapi.NewHealthServer(required, optional, 10*time.Second, log)
}

func provideReviewService(repo review.Repository, books book.Repository) review.Service {
	return review.NewService(repo, books)
}
