package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/application/port"
	"github.com/xiebiao/readify/internal/application/presenter"
	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/pkg/tracing"
)

// GetBookDetailUseCase 图书详情用例
// 成型后的文档(含祖先链、平均分)按图书缓存,新增评论时失效
type GetBookDetailUseCase struct {
	bookService book.Service
	presenter   *presenter.Presenter
	cache       port.DocumentCache
	ttl         time.Duration
	log         *zap.Logger
}

// NewGetBookDetailUseCase 创建图书详情用例
func NewGetBookDetailUseCase(
	bookService book.Service,
	p *presenter.Presenter,
	cache port.DocumentCache,
	ttl time.Duration,
	log *zap.Logger,
) *GetBookDetailUseCase {
	return &GetBookDetailUseCase{
		bookService: bookService,
		presenter:   p,
		cache:       cache,
		ttl:         ttl,
		log:         log,
	}
}

// Execute 图书不存在时返回book.ErrBookNotFound
func (uc *GetBookDetailUseCase) Execute(ctx context.Context, id uint) (*presenter.BookDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "book.GetBookDetail")
	defer span.End()

	detail, err := port.ReadThrough(ctx, uc.cache, uc.log, "book_detail", port.BookDetailKey(id), uc.ttl,
		func(ctx context.Context) (*presenter.BookDetail, error) {
			b, err := uc.bookService.GetBookDetail(ctx, id)
			if err != nil {
				return nil, err
			}
			return uc.presenter.BookDetail(ctx, b)
		})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return detail, nil
}
