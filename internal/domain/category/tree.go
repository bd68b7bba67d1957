package category

import (
	"context"
)

// DefaultMaxDepth 默认预取深度(根为第1层)
const DefaultMaxDepth = 5

// TreeFetcher 有界分类树读取器
// 算法:按层广度优先批量读取
//  1. 第1层:一次查询取出全部根分类
//  2. 第k+1层:一次查询取出parent_id IN (第k层全部id)的子分类
//  3. 到达maxDepth后不再读取子分类,改为一次探测查询,
//     标记深度上限处仍有子分类的节点为Truncated
//
// 往返次数上限为maxDepth+1,与树的宽度和节点总数无关;
// 某一层为空时提前结束,不会发出多余查询
type TreeFetcher struct {
	repo     Repository
	maxDepth int
}

// NewTreeFetcher 创建分类树读取器,maxDepth<1时使用DefaultMaxDepth
func NewTreeFetcher(repo Repository, maxDepth int) *TreeFetcher {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &TreeFetcher{repo: repo, maxDepth: maxDepth}
}

// MaxDepth 预取深度
func (f *TreeFetcher) MaxDepth() int {
	return f.maxDepth
}

// Fetch 读取整个分类森林,空库返回空森林
func (f *TreeFetcher) Fetch(ctx context.Context) (Forest, error) {
	roots, err := f.repo.FindRoots(ctx)
	if err != nil {
		return nil, err
	}

	forest := make(Forest, 0, len(roots))
	for _, c := range roots {
		forest = append(forest, newNode(c))
	}

	if err := f.expand(ctx, forest); err != nil {
		return nil, err
	}
	return forest, nil
}

// FetchSubtree 以id为根读取子树,深度上限同样为maxDepth(该节点为第1层)
// 用于继续展开被截断的节点
func (f *TreeFetcher) FetchSubtree(ctx context.Context, id uint) (*Node, error) {
	c, err := f.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.Subtree(ctx, c)
}

// Subtree 以已加载的分类c为第1层向下展开
func (f *TreeFetcher) Subtree(ctx context.Context, c *Category) (*Node, error) {
	root := newNode(c)
	if err := f.expand(ctx, []*Node{root}); err != nil {
		return nil, err
	}
	return root, nil
}

// expand 从第1层节点开始逐层向下填充Children
func (f *TreeFetcher) expand(ctx context.Context, level []*Node) error {
	depth := 1
	for ; depth < f.maxDepth && len(level) > 0; depth++ {
		index := make(map[uint]*Node, len(level))
		ids := make([]uint, 0, len(level))
		for _, n := range level {
			index[n.ID] = n
			ids = append(ids, n.ID)
		}

		children, err := f.repo.FindChildren(ctx, ids)
		if err != nil {
			return err
		}

		next := make([]*Node, 0, len(children))
		for _, c := range children {
			if c.ParentID == nil {
				continue
			}
			parent, ok := index[*c.ParentID]
			if !ok {
				continue
			}
			child := newNode(c)
			parent.Children = append(parent.Children, child)
			next = append(next, child)
		}
		level = next
	}

	if len(level) == 0 {
		return nil
	}
	return f.markTruncated(ctx, level)
}

// markTruncated 对深度上限处的节点发出一次探测查询
func (f *TreeFetcher) markTruncated(ctx context.Context, level []*Node) error {
	ids := make([]uint, 0, len(level))
	for _, n := range level {
		ids = append(ids, n.ID)
	}

	withChildren, err := f.repo.ParentsWithChildren(ctx, ids)
	if err != nil {
		return err
	}

	has := make(map[uint]struct{}, len(withChildren))
	for _, id := range withChildren {
		has[id] = struct{}{}
	}
	for _, n := range level {
		if _, ok := has[n.ID]; ok {
			n.Truncated = true
		}
	}
	return nil
}
