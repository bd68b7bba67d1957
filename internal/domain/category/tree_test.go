package category

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo 内存分类仓储,记录每个方法的调用次数
type memRepo struct {
	rows  map[uint]*Category
	calls map[string]int
	err   error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uint]*Category{}, calls: map[string]int{}}
}

func (r *memRepo) add(id uint, title string, parent uint) {
	c := &Category{ID: id, Title: title, Slug: title}
	if parent != 0 {
		p := parent
		c.ParentID = &p
	}
	r.rows[id] = c
}

func (r *memRepo) sorted(pred func(*Category) bool) []*Category {
	var out []*Category
	for _, c := range r.rows {
		if pred(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*Category, error) {
	r.calls["FindByID"]++
	c, ok := r.rows[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) FindRoots(context.Context) ([]*Category, error) {
	r.calls["FindRoots"]++
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(c *Category) bool { return c.ParentID == nil }), nil
}

func (r *memRepo) FindChildren(_ context.Context, parentIDs []uint) ([]*Category, error) {
	r.calls["FindChildren"]++
	in := map[uint]bool{}
	for _, id := range parentIDs {
		in[id] = true
	}
	return r.sorted(func(c *Category) bool { return c.ParentID != nil && in[*c.ParentID] }), nil
}

func (r *memRepo) ParentsWithChildren(_ context.Context, ids []uint) ([]uint, error) {
	r.calls["ParentsWithChildren"]++
	in := map[uint]bool{}
	for _, id := range ids {
		in[id] = true
	}
	seen := map[uint]bool{}
	var out []uint
	for _, c := range r.rows {
		if c.ParentID != nil && in[*c.ParentID] && !seen[*c.ParentID] {
			seen[*c.ParentID] = true
			out = append(out, *c.ParentID)
		}
	}
	return out, nil
}

func (r *memRepo) total() int {
	n := 0
	for _, v := range r.calls {
		n += v
	}
	return n
}

// chain 构造一条深度为depth的链:1→2→...→depth
func chain(r *memRepo, depth int) {
	for i := 1; i <= depth; i++ {
		r.add(uint(i), string(rune('A'+i-1)), uint(i-1))
	}
}

func maxDepth(f Forest) int {
	d := 0
	f.Walk(func(_ *Node, depth int) {
		if depth > d {
			d = depth
		}
	})
	return d
}

func TestTreeFetcher_Scenario(t *testing.T) {
	repo := newMemRepo()
	repo.add(1, "A", 0)
	repo.add(2, "B", 1)
	repo.add(3, "C", 2)

	forest, err := NewTreeFetcher(repo, 5).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, forest, 1)
	a := forest[0]
	assert.Equal(t, "A", a.Title)
	require.Len(t, a.Children, 1)
	b := a.Children[0]
	assert.Equal(t, "B", b.Title)
	require.Len(t, b.Children, 1)
	c := b.Children[0]
	assert.Equal(t, "C", c.Title)
	assert.NotNil(t, c.Children)
	assert.Empty(t, c.Children)
	assert.False(t, c.Truncated)
}

func TestTreeFetcher_DepthBound(t *testing.T) {
	for _, k := range []int{1, 3, 5, 6, 9} {
		repo := newMemRepo()
		chain(repo, k)

		forest, err := NewTreeFetcher(repo, 5).Fetch(context.Background())
		require.NoError(t, err)

		want := k
		if want > 5 {
			want = 5
		}
		assert.Equal(t, want, maxDepth(forest), "depth=%d", k)

		// 第5层节点在存储中仍有子分类时:子列表为空并标记截断
		forest.Walk(func(n *Node, depth int) {
			if depth == 5 {
				assert.Empty(t, n.Children)
				assert.Equal(t, k > 5, n.Truncated, "depth=%d", k)
			} else {
				assert.False(t, n.Truncated)
			}
		})
	}
}

func TestTreeFetcher_ConfigurableDepth(t *testing.T) {
	repo := newMemRepo()
	chain(repo, 4)

	forest, err := NewTreeFetcher(repo, 2).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, maxDepth(forest))
	assert.Equal(t, 1, forest.TruncatedCount())

	assert.Equal(t, DefaultMaxDepth, NewTreeFetcher(repo, 0).MaxDepth())
}

func TestTreeFetcher_ForestInvariant(t *testing.T) {
	repo := newMemRepo()
	repo.add(1, "R1", 0)
	repo.add(2, "R2", 0)
	repo.add(3, "R1a", 1)
	repo.add(4, "R2a", 2)
	repo.add(5, "R1b", 1)
	repo.add(6, "R1a-x", 3)
	repo.add(7, "R3", 0)

	forest, err := NewTreeFetcher(repo, 5).Fetch(context.Background())
	require.NoError(t, err)

	titles := make([]string, 0, len(forest))
	for _, n := range forest {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"R1", "R2", "R3"}, titles)

	seen := map[uint]int{}
	forest.Walk(func(n *Node, _ int) { seen[n.ID]++ })
	assert.Len(t, seen, 7)
	for id, count := range seen {
		assert.Equal(t, 1, count, "分类%d出现多次", id)
	}

	// 子节点保持插入顺序
	assert.Equal(t, "R1a", forest[0].Children[0].Title)
	assert.Equal(t, "R1b", forest[0].Children[1].Title)
}

func TestTreeFetcher_ConstantRoundTrips(t *testing.T) {
	for _, width := range []int{1, 10, 50} {
		repo := newMemRepo()
		id := uint(1)
		// 每层width个节点,共6层,每个节点挂在上一层第一个节点下
		var prevFirst uint
		for depth := 1; depth <= 6; depth++ {
			first := id
			for i := 0; i < width; i++ {
				repo.add(id, "n", prevFirst)
				id++
			}
			prevFirst = first
		}

		forest, err := NewTreeFetcher(repo, 5).Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5*width, forest.Count())

		assert.Equal(t, 1, repo.calls["FindRoots"])
		assert.Equal(t, 4, repo.calls["FindChildren"])
		assert.Equal(t, 1, repo.calls["ParentsWithChildren"])
		assert.Equal(t, 0, repo.calls["FindByID"])
		assert.Equal(t, 6, repo.total(), "width=%d", width)
	}
}

func TestTreeFetcher_ShallowTreeStopsEarly(t *testing.T) {
	repo := newMemRepo()
	chain(repo, 2)

	_, err := NewTreeFetcher(repo, 5).Fetch(context.Background())
	require.NoError(t, err)

	// 第3层为空后不再查询,也不需要截断探测
	assert.Equal(t, 2, repo.calls["FindChildren"])
	assert.Equal(t, 0, repo.calls["ParentsWithChildren"])
}

func TestTreeFetcher_Empty(t *testing.T) {
	repo := newMemRepo()

	forest, err := NewTreeFetcher(repo, 5).Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
	assert.Equal(t, 1, repo.total())
}

func TestTreeFetcher_StoreError(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection refused")

	_, err := NewTreeFetcher(repo, 5).Fetch(context.Background())
	assert.Error(t, err)
}

func TestTreeFetcher_FetchSubtree(t *testing.T) {
	repo := newMemRepo()
	chain(repo, 8)

	fetcher := NewTreeFetcher(repo, 5)
	forest, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)

	// 找到被截断的第5层节点,从它继续展开
	var cut *Node
	forest.Walk(func(n *Node, _ int) {
		if n.Truncated {
			cut = n
		}
	})
	require.NotNil(t, cut)
	assert.Equal(t, uint(5), cut.ID)

	sub, err := fetcher.FetchSubtree(context.Background(), cut.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(5), sub.ID)
	require.Len(t, sub.Children, 1)
	assert.Equal(t, uint(6), sub.Children[0].ID)
	assert.Equal(t, 4, maxDepth(Forest{sub}))

	_, err = fetcher.FetchSubtree(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
