package category

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/application/port"
	"github.com/xiebiao/readify/internal/application/presenter"
	"github.com/xiebiao/readify/internal/domain/category"
	"github.com/xiebiao/readify/pkg/metrics"
	"github.com/xiebiao/readify/pkg/tracing"
)

// ListCategoriesUseCase 分类树查询用例
// 设计说明:
// 1. 按层批量读取到深度上限,往返次数与节点数无关
// 2. 成型后的文档整体缓存,分类变更频率低
// 3. 发生截断时计数并记录日志,提示需要调大深度或通过详情接口继续展开
type ListCategoriesUseCase struct {
	fetcher   *category.TreeFetcher
	presenter *presenter.Presenter
	cache     port.DocumentCache
	ttl       time.Duration
	log       *zap.Logger
}

// NewListCategoriesUseCase 创建分类树查询用例
func NewListCategoriesUseCase(
	fetcher *category.TreeFetcher,
	p *presenter.Presenter,
	cache port.DocumentCache,
	ttl time.Duration,
	log *zap.Logger,
) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		fetcher:   fetcher,
		presenter: p,
		cache:     cache,
		ttl:       ttl,
		log:       log,
	}
}

// Execute 返回全部根分类及其子树
func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]presenter.CategoryNode, error) {
	ctx, span := tracing.StartSpan(ctx, "category.ListCategories")
	defer span.End()

	key := port.CategoryTreeKey(uc.fetcher.MaxDepth())
	nodes, err := port.ReadThrough(ctx, uc.cache, uc.log, "category_tree", key, uc.ttl, uc.load)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return nodes, nil
}

func (uc *ListCategoriesUseCase) load(ctx context.Context) ([]presenter.CategoryNode, error) {
	forest, err := uc.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if n := forest.TruncatedCount(); n > 0 {
		metrics.IncCategoryTruncation()
		uc.log.Warn("分类树超过预取深度,部分节点被截断",
			zap.Int("max_depth", uc.fetcher.MaxDepth()),
			zap.Int("truncated_nodes", n),
		)
	}
	return uc.presenter.CategoryForest(forest), nil
}
