package book

import (
	"context"

	"github.com/xiebiao/readify/internal/application/presenter"
	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/pkg/tracing"
)

// GetPublisherDetailUseCase 出版社详情用例
type GetPublisherDetailUseCase struct {
	bookService book.Service
	presenter   *presenter.Presenter
}

// NewGetPublisherDetailUseCase 创建出版社详情用例
func NewGetPublisherDetailUseCase(bookService book.Service, p *presenter.Presenter) *GetPublisherDetailUseCase {
	return &GetPublisherDetailUseCase{bookService: bookService, presenter: p}
}

// Execute 出版社不存在时返回book.ErrPublisherNotFound
func (uc *GetPublisherDetailUseCase) Execute(ctx context.Context, id uint) (*presenter.PublisherDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "book.GetPublisherDetail")
	defer span.End()

	pub, err := uc.bookService.GetPublisherDetail(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return uc.presenter.PublisherDetail(pub), nil
}

// GetAuthorDetailUseCase 作者详情用例
type GetAuthorDetailUseCase struct {
	bookService book.Service
	presenter   *presenter.Presenter
}

// NewGetAuthorDetailUseCase 创建作者详情用例
func NewGetAuthorDetailUseCase(bookService book.Service, p *presenter.Presenter) *GetAuthorDetailUseCase {
	return &GetAuthorDetailUseCase{bookService: bookService, presenter: p}
}

// Execute 作者不存在时返回book.ErrAuthorNotFound
func (uc *GetAuthorDetailUseCase) Execute(ctx context.Context, id uint) (*presenter.AuthorDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "book.GetAuthorDetail")
	defer span.End()

	a, err := uc.bookService.GetAuthorDetail(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return uc.presenter.AuthorDetail(a), nil
}
