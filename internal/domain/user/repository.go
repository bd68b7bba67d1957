package user

import (
	"context"
)

// Repository 用户仓储接口
// 设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/rdbms
type Repository interface {
	// Create 创建用户
	// 邮箱已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 不存在时返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	// 不存在时返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}
