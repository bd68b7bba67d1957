package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(cs []*Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Title)
	}
	return out
}

func TestAncestors_ChildToRoot(t *testing.T) {
	repo := newMemRepo()
	chain(repo, 4) // A→B→C→D

	d, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	repo.calls = map[string]int{}

	got, err := Ancestors(context.Background(), repo, d)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, titles(got))
	assert.Equal(t, 3, repo.calls["FindByID"])
}

func TestAncestors_UsesPreloadedParent(t *testing.T) {
	repo := newMemRepo()
	chain(repo, 3)

	c, _ := repo.FindByID(context.Background(), 3)
	c.Parent, _ = repo.FindByID(context.Background(), 2)
	repo.calls = map[string]int{}

	got, err := Ancestors(context.Background(), repo, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(got))
	// 直接父分类已预加载,只需再查一次根
	assert.Equal(t, 1, repo.calls["FindByID"])
}

func TestAncestors_Root(t *testing.T) {
	repo := newMemRepo()
	repo.add(1, "A", 0)
	a, _ := repo.FindByID(context.Background(), 1)

	got, err := Ancestors(context.Background(), repo, a)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Ancestors(context.Background(), repo, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAncestors_Cycle(t *testing.T) {
	repo := newMemRepo()
	repo.add(1, "A", 3)
	repo.add(2, "B", 1)
	repo.add(3, "C", 2)

	b, _ := repo.FindByID(context.Background(), 2)
	_, err := Ancestors(context.Background(), repo, b)
	assert.ErrorIs(t, err, ErrCategoryCycle)
}

func TestAncestors_DanglingParent(t *testing.T) {
	repo := newMemRepo()
	repo.add(2, "B", 1) // 父分类1不存在

	b, _ := repo.FindByID(context.Background(), 2)
	got, err := Ancestors(context.Background(), repo, b)
	require.NoError(t, err)
	assert.Empty(t, got)
}
