package category

import (
	"context"
	"errors"
)

// Ancestors 返回c的祖先链(不含c本身),顺序为由近到远:[P1, P2, ..., Root]
//
// 与向下读取不同,向上读取不设深度上限:每一步只沿一个外键走一行,
// 真实数据中祖先链很短。c.Parent已预加载时直接使用,之后每个祖先一次单行查询。
// 存储中出现环时返回ErrCategoryCycle,而不是无限循环。
func Ancestors(ctx context.Context, loader ParentLoader, c *Category) ([]*Category, error) {
	if c == nil {
		return nil, nil
	}

	visited := map[uint]struct{}{c.ID: {}}
	var chain []*Category

	cur := c
	for cur.ParentID != nil {
		parent, err := parentOf(ctx, loader, cur)
		if err != nil {
			// ON DELETE SET NULL下父分类不会悬空;万一悬空,视当前节点为根
			if errors.Is(err, ErrCategoryNotFound) {
				break
			}
			return nil, err
		}

		if _, seen := visited[parent.ID]; seen {
			return nil, ErrCategoryCycle
		}
		visited[parent.ID] = struct{}{}

		chain = append(chain, parent)
		cur = parent
	}

	return chain, nil
}

func parentOf(ctx context.Context, loader ParentLoader, c *Category) (*Category, error) {
	if c.Parent != nil && c.Parent.ID == *c.ParentID {
		return c.Parent, nil
	}
	return loader.FindByID(ctx, *c.ParentID)
}
