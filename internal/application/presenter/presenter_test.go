package presenter

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/internal/domain/category"
	"github.com/xiebiao/readify/internal/domain/review"
)

// memLoader 按id返回分类,并统计查询次数
type memLoader struct {
	byID  map[uint]*category.Category
	calls int
}

func (m *memLoader) FindByID(_ context.Context, id uint) (*category.Category, error) {
	m.calls++
	c, ok := m.byID[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func uintPtr(v uint) *uint { return &v }

// chain Root(1) ← P2(2) ← P1(3) ← C(4)
func newChainLoader() *memLoader {
	return &memLoader{byID: map[uint]*category.Category{
		1: {ID: 1, Title: "Root"},
		2: {ID: 2, Title: "P2", ParentID: uintPtr(1)},
		3: {ID: 3, Title: "P1", ParentID: uintPtr(2)},
		4: {ID: 4, Title: "C", ParentID: uintPtr(3)},
	}}
}

func TestPresenter_CategoryForest(t *testing.T) {
	c := &category.Node{ID: 3, Title: "C", Slug: "c", Children: []*category.Node{}}
	b := &category.Node{ID: 2, Title: "B", Slug: "b", Children: []*category.Node{c}}
	a := &category.Node{ID: 1, Title: "A", Slug: "a", Children: []*category.Node{b}}

	out := New("", nil).CategoryForest(category.Forest{a})
	raw, err := json.Marshal(out)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":1,"title":"A","slug":"a","subcategories":[
		{"id":2,"title":"B","slug":"b","subcategories":[
			{"id":3,"title":"C","slug":"c","subcategories":[]}]}]}]`, string(raw))
}

func TestPresenter_CategoryForestTruncated(t *testing.T) {
	leaf := &category.Node{ID: 2, Title: "Deep", Slug: "deep", Truncated: true}

	out := New("", nil).CategoryForest(category.Forest{leaf})
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2,"title":"Deep","slug":"deep","subcategories":[],"truncated":true}]`, string(raw))

	raw, err = json.Marshal(New("", nil).CategoryForest(category.Forest{}))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

// TestPresenter_AncestorSymmetry parent_categories逐层展开应为[P1, P2, Root]
func TestPresenter_AncestorSymmetry(t *testing.T) {
	loader := newChainLoader()
	c, _ := loader.FindByID(context.Background(), 4)
	// 详情主查询已带出直接父分类
	c.Parent, _ = loader.FindByID(context.Background(), 3)
	loader.calls = 0

	d, err := New("", loader).BookDetail(context.Background(), &book.Book{Title: "X", Category: c})
	require.NoError(t, err)
	require.NotNil(t, d.Category)
	assert.Equal(t, "C", d.Category.Title)

	var titles []string
	level := d.Category.ParentCategories
	for len(level) > 0 {
		require.Len(t, level, 1)
		titles = append(titles, level[0].Title)
		level = level[0].ParentCategories
	}
	assert.Equal(t, []string{"P1", "P2", "Root"}, titles)
	// P1已预加载,P2与Root各一次单行查询
	assert.Equal(t, 2, loader.calls)
}

func TestPresenter_RootCategory(t *testing.T) {
	d, err := New("", newChainLoader()).BookDetail(context.Background(),
		&book.Book{Title: "X", Category: &category.Category{ID: 1, Title: "Root"}})
	require.NoError(t, err)

	raw, err := json.Marshal(d.Category)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Root","parent_categories":[]}`, string(raw))
}

func TestPresenter_CategoryCycle(t *testing.T) {
	loader := &memLoader{byID: map[uint]*category.Category{
		1: {ID: 1, Title: "A", ParentID: uintPtr(2)},
		2: {ID: 2, Title: "B", ParentID: uintPtr(1)},
	}}
	c, _ := loader.FindByID(context.Background(), 1)

	_, err := New("", loader).BookDetail(context.Background(), &book.Book{Category: c})
	assert.ErrorIs(t, err, category.ErrCategoryCycle)
}

func TestPresenter_BookDetail(t *testing.T) {
	pages := 310
	b := &book.Book{
		Title:       "The Hobbit",
		Slug:        "the-hobbit",
		CoverImage:  "covers/hobbit.jpg",
		Price:       decimal.RequireFromString("12.5"),
		AmountPages: &pages,
		Publishers:  []book.Publisher{{ID: 1, Title: "Penguin", Slug: "penguin"}},
		Authors:     []book.Author{{ID: 2, Title: "Tolkien", Slug: "tolkien"}},
		Papers:      []book.Paper{{ID: 1, Title: "Offset"}},
		Reviews: []review.Review{{
			UserID: 7, UserFirstName: "Alice", UserLastName: "Smith",
			Title: "Good", Content: "Yes", Rating: 4,
			Created: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		}},
		AverageRating: review.AverageOf(3, 4, 5),
	}

	d, err := New("https://cdn.example.com/media/", nil).BookDetail(context.Background(), b)
	require.NoError(t, err)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title":"The Hobbit","category":null,
		"cover_image":"https://cdn.example.com/media/covers/hobbit.jpg",
		"price":"12.50","slug":"the-hobbit",
		"publisher":[{"id":1,"title":"Penguin","slug":"penguin"}],
		"author":[{"id":2,"title":"Tolkien","slug":"tolkien"}],
		"paper":[{"title":"Offset"}],"language":[],
		"weight":null,"edition":null,"amount_pages":310,"isbn":null,
		"reviews":[{"user":7,"user_first_name":"Alice","user_last_name":"Smith",
			"title":"Good","content":"Yes","rating":4,"created":"2026-01-02"}],
		"average_rating":4
	}`, string(raw))
}

// TestPresenter_AverageNull 没有评论时输出null而不是0
func TestPresenter_AverageNull(t *testing.T) {
	d, err := New("", nil).BookDetail(context.Background(), &book.Book{Title: "Empty"})
	require.NoError(t, err)

	var doc map[string]interface{}
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &doc))

	v, ok := doc["average_rating"]
	require.True(t, ok)
	assert.Nil(t, v)

	// 缓存往返后仍为null
	var back BookDetail
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.False(t, back.AverageRating.Valid)
}

// TestPresenter_ListProjection 列表项只包含六个字段
func TestPresenter_ListProjection(t *testing.T) {
	cat := uint(1)
	isbn := "123"
	items := New("", nil).BookList([]*book.Book{{
		ID: 1, Title: "T", Slug: "t", Price: decimal.NewFromInt(20),
		CategoryID: &cat, ISBN: &isbn,
		Authors: []book.Author{{ID: 9, Title: "A", Slug: "a"}},
	}})

	raw, err := json.Marshal(items)
	require.NoError(t, err)

	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Len(t, docs, 1)

	keys := make([]string, 0, len(docs[0]))
	for k := range docs[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"author", "cover_image", "id", "price", "slug", "title"}, keys)
	assert.Equal(t, "20.00", docs[0]["price"])
	assert.Equal(t, []interface{}{map[string]interface{}{"title": "A"}}, docs[0]["author"])
}

func TestPresenter_PublisherAndAuthor(t *testing.T) {
	p := New("/media/", nil)
	books := []*book.Book{{ID: 1, Title: "T", Price: decimal.NewFromInt(1), Authors: []book.Author{{Title: "A"}}}}

	pub := p.PublisherDetail(&book.Publisher{ID: 3, Title: "P", Image: "logo.png", Description: "d", Slug: "p", Books: books})
	assert.Equal(t, "/media/logo.png", pub.Image)
	require.Len(t, pub.Books, 1)
	assert.Equal(t, "A", pub.Books[0].Author[0].Title)

	a := p.AuthorDetail(&book.Author{ID: 4, Title: "A", Biography: "bio", Slug: "a"})
	assert.Equal(t, "", a.Image)
	assert.NotNil(t, a.Books)
}

func TestPresenter_Media(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{"/media/", "covers/a.jpg", "/media/covers/a.jpg"},
		{"/media", "covers/a.jpg", "/media/covers/a.jpg"},
		{"/media/", "", ""},
		{"/media/", "https://img.example.com/a.jpg", "https://img.example.com/a.jpg"},
		{"/media/", "/static/a.jpg", "/static/a.jpg"},
		{"", "covers/a.jpg", "covers/a.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.prefix, nil).Media(tt.path), "%s + %s", tt.prefix, tt.path)
	}
}
