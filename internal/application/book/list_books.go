package book

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/readify/internal/application/presenter"
	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 列表只返回id/title/price/slug/cover_image/author,不加载详情字段
type ListBooksUseCase struct {
	bookService book.Service
	presenter   *presenter.Presenter
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, p *presenter.Presenter) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		presenter:   p,
	}
}

// ListBooksRequest 列表查询请求
// 过滤条件为透传参数,nil表示不过滤
type ListBooksRequest struct {
	Page        int
	PageSize    int
	Search      string
	Ordering    string
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	CategoryID  *uint
	AuthorID    *uint
	PublisherID *uint
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List     []presenter.BookListItem
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
// 分页默认值、上限与参数校验由领域服务负责
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "book.ListBooks")
	defer span.End()

	params, err := book.Normalize(book.ListParams{
		Page:        req.Page,
		PageSize:    req.PageSize,
		Search:      req.Search,
		Ordering:    req.Ordering,
		PriceMin:    req.PriceMin,
		PriceMax:    req.PriceMax,
		CategoryID:  req.CategoryID,
		AuthorID:    req.AuthorID,
		PublisherID: req.PublisherID,
	}, uc.bookService.Paging())
	if err != nil {
		return nil, err
	}

	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	return &ListBooksResponse{
		List:     uc.presenter.BookList(books),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}
