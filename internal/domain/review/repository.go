package review

import (
	"context"
)

// Repository 评论仓储接口
type Repository interface {
	// Create 创建评论,回填ID
	Create(ctx context.Context, r *Review) error
}

// BookChecker 校验图书是否存在
// 由图书仓储实现,评论领域不依赖图书领域的具体类型
type BookChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}
