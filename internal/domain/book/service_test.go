package book

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

func TestNormalize(t *testing.T) {
	paging := Paging{DefaultPageSize: 20, MaxPageSize: 100}

	tests := []struct {
		name         string
		in           ListParams
		wantPage     int
		wantPageSize int
		wantField    string
	}{
		{"默认值", ListParams{}, 1, 20, ""},
		{"超过上限", ListParams{Page: 3, PageSize: 500}, 3, 100, ""},
		{"负数页码", ListParams{Page: -1, PageSize: 10}, 1, 10, ""},
		{"价格升序", ListParams{Ordering: "price"}, 1, 20, ""},
		{"价格降序", ListParams{Ordering: "-price"}, 1, 20, ""},
		{"非法排序", ListParams{Ordering: "title"}, 1, 20, "ordering"},
		{"页码过大导致偏移量溢出", ListParams{Page: math.MaxInt/20 + 2, PageSize: 20}, 0, 0, "page"},
		{"偏移量恰好可表示", ListParams{Page: math.MaxInt/100 + 1, PageSize: 100}, math.MaxInt/100 + 1, 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in, paging)
			if tt.wantField != "" {
				require.Error(t, err)
				assert.Contains(t, apperrors.GetAppError(err).Fields, tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
		})
	}
}

func TestNormalize_PriceRange(t *testing.T) {
	lo, hi := decimal.RequireFromString("50"), decimal.RequireFromString("10")
	_, err := Normalize(ListParams{PriceMin: &lo, PriceMax: &hi}, Paging{DefaultPageSize: 20})
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).Fields, "price_min")

	_, err = Normalize(ListParams{PriceMin: &hi, PriceMax: &lo}, Paging{DefaultPageSize: 20})
	assert.NoError(t, err)
}

func TestListParams_Offset(t *testing.T) {
	assert.Equal(t, 0, ListParams{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, ListParams{Page: 3, PageSize: 20}.Offset())
}

type stubBooks struct{ got ListParams }

func (s *stubBooks) List(_ context.Context, p ListParams) ([]*Book, int64, error) {
	s.got = p
	return []*Book{{ID: 1}}, 1, nil
}
func (s *stubBooks) FindDetail(context.Context, uint) (*Book, error) { return nil, ErrBookNotFound }
func (s *stubBooks) Exists(context.Context, uint) (bool, error)      { return false, nil }

func TestService_ListBooks_Normalizes(t *testing.T) {
	repo := &stubBooks{}
	svc := NewService(repo, nil, nil, Paging{DefaultPageSize: 10, MaxPageSize: 50})

	books, total, err := svc.ListBooks(context.Background(), ListParams{PageSize: 999, Search: "  go "})
	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 50, repo.got.PageSize)
	assert.Equal(t, "go", repo.got.Search)

	_, err = svc.GetBookDetail(context.Background(), 9)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
