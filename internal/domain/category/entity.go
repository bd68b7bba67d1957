package category

// Category 分类实体
// 设计说明:
// 1. 分类通过ParentID自引用构成森林(ParentID为nil即根分类)
// 2. 删除父分类时子分类ParentID置空(不级联删除),子树成为新的根
// 3. Parent仅在图书详情查询时预加载直接父分类,其余场景为nil
type Category struct {
	ID       uint
	Title    string
	Slug     string
	ParentID *uint
	Parent   *Category
}

// IsRoot 是否为根分类
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Node 分类树节点
// Truncated为true表示该节点位于深度上限且在存储中还有子分类,
// 调用方需以该节点为起点再次获取才能看到更深的层级
type Node struct {
	ID        uint
	Title     string
	Slug      string
	Children  []*Node
	Truncated bool
}

func newNode(c *Category) *Node {
	return &Node{
		ID:       c.ID,
		Title:    c.Title,
		Slug:     c.Slug,
		Children: []*Node{},
	}
}

// Forest 分类森林(根节点按插入顺序排列)
type Forest []*Node

// Count 森林中节点总数
func (f Forest) Count() int {
	n := 0
	f.Walk(func(*Node, int) { n++ })
	return n
}

// TruncatedCount 被截断的节点数
func (f Forest) TruncatedCount() int {
	n := 0
	f.Walk(func(node *Node, _ int) {
		if node.Truncated {
			n++
		}
	})
	return n
}

// Walk 深度优先遍历,depth从1开始(根为第1层)
func (f Forest) Walk(fn func(node *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(f, 1)
}
