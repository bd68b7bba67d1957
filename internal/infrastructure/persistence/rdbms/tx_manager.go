package rdbms

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 事务管理器
// 通过context传递事务DB,fn内所有仓储操作处于同一事务
// 嵌套调用时GORM自动使用Savepoint
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction fn返回error时ROLLBACK,返回nil时COMMIT
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFrom(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom ctx中有事务DB时使用事务DB,否则使用默认连接
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
