package category

import (
	"context"

	"github.com/xiebiao/readify/internal/application/presenter"
	"github.com/xiebiao/readify/internal/domain/category"
	"github.com/xiebiao/readify/pkg/tracing"
)

// GetCategoryUseCase 分类详情用例
// 以该分类为第1层读取子树(深度上限同分类树),用于继续展开被截断的节点;
// 同时返回祖先链
type GetCategoryUseCase struct {
	repo      category.Repository
	fetcher   *category.TreeFetcher
	presenter *presenter.Presenter
}

// NewGetCategoryUseCase 创建分类详情用例
func NewGetCategoryUseCase(repo category.Repository, fetcher *category.TreeFetcher, p *presenter.Presenter) *GetCategoryUseCase {
	return &GetCategoryUseCase{repo: repo, fetcher: fetcher, presenter: p}
}

// Execute 分类不存在时返回category.ErrCategoryNotFound
func (uc *GetCategoryUseCase) Execute(ctx context.Context, id uint) (*presenter.CategoryDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "category.GetCategory")
	defer span.End()

	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	subtree, err := uc.fetcher.Subtree(ctx, c)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	detail, err := uc.presenter.CategoryDetail(ctx, c, subtree)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return detail, nil
}
