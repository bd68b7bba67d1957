package category

import (
	"context"
)

// ParentLoader 单行加载分类(祖先链逐级向上查询使用)
type ParentLoader interface {
	// FindByID 不存在时返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)
}

// Repository 分类仓储接口
// 设计说明:
// 1. 分类树按层批量读取,每层一次查询(parent_id IN ?),不按节点逐个查询
// 2. 所有列表方法按id升序返回,保证输出顺序稳定(插入顺序)
type Repository interface {
	ParentLoader

	// FindRoots 返回所有根分类(parent_id IS NULL)
	FindRoots(ctx context.Context) ([]*Category, error)

	// FindChildren 一次查询返回parentIDs下的全部直接子分类
	FindChildren(ctx context.Context, parentIDs []uint) ([]*Category, error)

	// ParentsWithChildren 返回ids中仍有子分类的id(用于标记截断)
	ParentsWithChildren(ctx context.Context, ids []uint) ([]uint, error)
}
