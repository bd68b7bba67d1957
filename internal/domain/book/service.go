package book

import (
	"context"
	"math"
	"strings"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务负责参数规则(分页、排序、价格区间)
// 2. 查询本身委托给仓储,往返次数由仓储保证
type Service interface {
	// ListBooks 分页查询图书列表(参数先经过Normalize)
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// GetBookDetail 图书详情
	GetBookDetail(ctx context.Context, id uint) (*Book, error)

	// GetPublisherDetail 出版社详情
	GetPublisherDetail(ctx context.Context, id uint) (*Publisher, error)

	// GetAuthorDetail 作者详情
	GetAuthorDetail(ctx context.Context, id uint) (*Author, error)

	// Paging 分页规则(调用方用于回显实际生效的分页参数)
	Paging() Paging
}

// Paging 分页规则
type Paging struct {
	DefaultPageSize int
	MaxPageSize     int
}

// service 领域服务实现
type service struct {
	books      Repository
	publishers PublisherRepository
	authors    AuthorRepository
	paging     Paging
}

// NewService 创建图书领域服务
func NewService(books Repository, publishers PublisherRepository, authors AuthorRepository, paging Paging) Service {
	if paging.DefaultPageSize <= 0 {
		paging.DefaultPageSize = 20
	}
	if paging.MaxPageSize < paging.DefaultPageSize {
		paging.MaxPageSize = paging.DefaultPageSize
	}
	return &service{books: books, publishers: publishers, authors: authors, paging: paging}
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params, err := Normalize(params, s.paging)
	if err != nil {
		return nil, 0, err
	}
	return s.books.List(ctx, params)
}

func (s *service) Paging() Paging {
	return s.paging
}

func (s *service) GetBookDetail(ctx context.Context, id uint) (*Book, error) {
	return s.books.FindDetail(ctx, id)
}

func (s *service) GetPublisherDetail(ctx context.Context, id uint) (*Publisher, error) {
	return s.publishers.FindDetail(ctx, id)
}

func (s *service) GetAuthorDetail(ctx context.Context, id uint) (*Author, error) {
	return s.authors.FindDetail(ctx, id)
}

// Normalize 补齐分页默认值并校验过滤参数
// 规则:
// - page<1 视为1;page_size<1 取默认值,超过上限取上限
// - ordering只允许price/-price
// - price_min不能大于price_max
// - 偏移量(page-1)*page_size必须能用int表示
func Normalize(p ListParams, paging Paging) (ListParams, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = paging.DefaultPageSize
	}
	if paging.MaxPageSize > 0 && p.PageSize > paging.MaxPageSize {
		p.PageSize = paging.MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)

	fields := map[string]string{}
	switch p.Ordering {
	case OrderingDefault, OrderingPriceAsc, OrderingPriceDesc:
	default:
		fields["ordering"] = "仅支持price或-price"
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		fields["page"] = "页码超出范围"
	}
	if p.PriceMin != nil && p.PriceMax != nil && p.PriceMin.GreaterThan(*p.PriceMax) {
		fields["price_min"] = "最低价格不能大于最高价格"
	}
	if len(fields) > 0 {
		return p, apperrors.Validation(fields)
	}
	return p, nil
}
