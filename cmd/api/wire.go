//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/readify/internal/application/book"
	appcategory "github.com/xiebiao/readify/internal/application/category"
	appreview "github.com/xiebiao/readify/internal/application/review"
	appuser "github.com/xiebiao/readify/internal/application/user"
	"github.com/xiebiao/readify/internal/domain/user"
	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms"
	"github.com/xiebiao/readify/internal/interface/http/handler"
	"github.com/xiebiao/readify/internal/interface/http/middleware"
	"github.com/xiebiao/readify/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	rdbms.NewDB,
	provideRedisClient,
	provideDocumentCache,
	provideSessionStore,
	provideTokenBlacklist,
	provideEventPublisher,
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	rdbms.NewCategoryRepository,
	rdbms.NewBookRepository,
	rdbms.NewPublisherRepository,
	rdbms.NewAuthorRepository,
	rdbms.NewReviewRepository,
	rdbms.NewUserRepository,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideTreeFetcher,
	provideBookService,
	provideReviewService,
	user.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	providePresenter,
	provideListCategoriesUseCase,
	appcategory.NewGetCategoryUseCase,
	appbook.NewListBooksUseCase,
	provideGetBookDetailUseCase,
	appbook.NewGetPublisherDetailUseCase,
	appbook.NewGetAuthorDetailUseCase,
	appreview.NewCreateReviewUseCase,
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
)

// interfaceSet HTTP处理器、中间件、gRPC健康检查
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	provideReviewLimiter,
	handler.NewCategoryHandler,
	handler.NewBookHandler,
	handler.NewPublisherHandler,
	handler.NewAuthorHandler,
	handler.NewReviewHandler,
	handler.NewUserHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
	provideHealthServer,
)

// InitializeApp 组装整个应用,cleanup按创建的逆序关闭外部连接
func InitializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, func(), error) {
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
