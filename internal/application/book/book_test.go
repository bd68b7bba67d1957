package book_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookapp "github.com/xiebiao/readify/internal/application/book"
	"github.com/xiebiao/readify/internal/application/port"
	"github.com/xiebiao/readify/internal/application/presenter"
	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms/rdbmstest"
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

type env struct {
	seeded    *rdbms.SeedResult
	service   book.Service
	presenter *presenter.Presenter
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := rdbmstest.Open(t)
	return &env{
		seeded: rdbmstest.Seed(t, db, rdbmstest.Catalog),
		service: book.NewService(
			rdbms.NewBookRepository(db),
			rdbms.NewPublisherRepository(db),
			rdbms.NewAuthorRepository(db),
			book.Paging{DefaultPageSize: 20, MaxPageSize: 50},
		),
		presenter: presenter.New("https://cdn.example.com/media/", rdbms.NewCategoryRepository(db)),
	}
}

func TestListBooks(t *testing.T) {
	e := newEnv(t)
	uc := bookapp.NewListBooksUseCase(e.service, e.presenter)

	resp, err := uc.Execute(context.Background(), bookapp.ListBooksRequest{Page: 1, PageSize: 2, Ordering: "price"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Total)
	assert.Equal(t, 2, resp.PageSize)
	require.Len(t, resp.List, 2)
	assert.Equal(t, "Mistborn", resp.List[0].Title)
	assert.Equal(t, "9.99", resp.List[0].Price)
	assert.Equal(t, "12.50", resp.List[1].Price)
	assert.Equal(t, "https://cdn.example.com/media/covers/hobbit.jpg", resp.List[1].CoverImage)

	// page_size超过上限时按上限
	resp, err = uc.Execute(context.Background(), bookapp.ListBooksRequest{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.PageSize)
	assert.Len(t, resp.List, 4)

	hi := decimal.RequireFromString("10")
	lo := decimal.RequireFromString("20")
	_, err = uc.Execute(context.Background(), bookapp.ListBooksRequest{PriceMin: &lo, PriceMax: &hi})
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).Fields, "price_min")
}

func TestGetBookDetail_NopCache(t *testing.T) {
	e := newEnv(t)
	uc := bookapp.NewGetBookDetailUseCase(e.service, e.presenter, port.NopCache{}, time.Minute, zap.NewNop())

	d, err := uc.Execute(context.Background(), e.seeded.Books["hobbit"])
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", d.Title)
	require.NotNil(t, d.Category)
	assert.Equal(t, "Epic Fantasy", d.Category.Title)
	require.Len(t, d.Category.ParentCategories, 1)
	assert.Equal(t, "Fantasy", d.Category.ParentCategories[0].Title)
	require.Len(t, d.Category.ParentCategories[0].ParentCategories, 1)
	assert.Equal(t, "Fiction", d.Category.ParentCategories[0].ParentCategories[0].Title)
	assert.Empty(t, d.Category.ParentCategories[0].ParentCategories[0].ParentCategories)

	_, err = uc.Execute(context.Background(), 9999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestGetPublisherAndAuthorDetail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	pub, err := bookapp.NewGetPublisherDetailUseCase(e.service, e.presenter).Execute(ctx, e.seeded.Publishers["penguin"])
	require.NoError(t, err)
	assert.Equal(t, "Penguin Books", pub.Title)
	assert.Equal(t, "https://cdn.example.com/media/publishers/penguin.png", pub.Image)
	assert.Len(t, pub.Books, 2)

	author, err := bookapp.NewGetAuthorDetailUseCase(e.service, e.presenter).Execute(ctx, e.seeded.Authors["sanderson"])
	require.NoError(t, err)
	assert.Equal(t, "brandon-sanderson", author.Slug)
	assert.Len(t, author.Books, 2)

	_, err = bookapp.NewGetPublisherDetailUseCase(e.service, e.presenter).Execute(ctx, 9999)
	assert.ErrorIs(t, err, book.ErrPublisherNotFound)
	_, err = bookapp.NewGetAuthorDetailUseCase(e.service, e.presenter).Execute(ctx, 9999)
	assert.ErrorIs(t, err, book.ErrAuthorNotFound)
}
