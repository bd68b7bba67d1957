package rdbms

import (
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/xiebiao/readify/pkg/metrics"
)

const queryCounterName = "readify:query_counter"

// QueryCounter GORM插件,统计数据库往返次数
// 每条实际发出的SQL计一次(事务的BEGIN/COMMIT不计)
// 同时上报readify_store_queries_total{operation}
type QueryCounter struct {
	n atomic.Int64
}

// NewQueryCounter 创建计数插件
func NewQueryCounter() *QueryCounter {
	return &QueryCounter{}
}

// Name 插件名称(同一个*gorm.DB只能注册一次)
func (c *QueryCounter) Name() string {
	return queryCounterName
}

// Initialize 在各类操作的执行回调之后注册计数回调
func (c *QueryCounter) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().After("gorm:query").Register("readify:count_query", c.observe("query")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("readify:count_row", c.observe("row")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("readify:count_create", c.observe("create")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("readify:count_update", c.observe("update")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("readify:count_delete", c.observe("delete")); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("readify:count_raw", c.observe("raw"))
}

// QueryCounterOf 取出db上已注册的计数插件,未注册时返回nil
func QueryCounterOf(db *gorm.DB) *QueryCounter {
	p, ok := db.Config.Plugins[queryCounterName]
	if !ok {
		return nil
	}
	c, _ := p.(*QueryCounter)
	return c
}

// Count 注册以来的往返次数
func (c *QueryCounter) Count() int64 {
	return c.n.Load()
}

// Reset 计数清零
func (c *QueryCounter) Reset() {
	c.n.Store(0)
}

func (c *QueryCounter) observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.DryRun || db.Statement.SQL.Len() == 0 {
			return
		}
		c.n.Add(1)
		metrics.ObserveStoreQuery(operation)
	}
}
