package book

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 每个方法的往返次数固定,与关联行数、页大小无关
type Repository interface {
	// List 分页查询图书列表
	// 只投影id/title/price/slug/cover_image,作者批量查询一次并只取id/title
	// 往返:count 1次 + 当页数据 1次 + 作者 1次
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// FindDetail 图书详情
	// 往返:图书+分类+直接父分类+平均分 1次,出版社/作者/纸张/语言各1次,评论(联表用户姓名)1次
	FindDetail(ctx context.Context, id uint) (*Book, error)

	// Exists 图书是否存在
	Exists(ctx context.Context, id uint) (bool, error)
}

// PublisherRepository 出版社仓储接口
type PublisherRepository interface {
	// FindDetail 出版社详情及其图书(图书作者只取title)
	// 往返:出版社 1次 + 图书 1次 + 作者 1次,嵌套深度固定为2
	FindDetail(ctx context.Context, id uint) (*Publisher, error)
}

// AuthorRepository 作者仓储接口
type AuthorRepository interface {
	// FindDetail 作者详情及其图书(图书作者只取title)
	FindDetail(ctx context.Context, id uint) (*Author, error)
}

// 排序方式
const (
	OrderingDefault   = ""       // 按id升序
	OrderingPriceAsc  = "price"  // 价格升序
	OrderingPriceDesc = "-price" // 价格降序
)

// ListParams 列表查询参数
// 过滤条件均为透传,未设置(nil/空)时不参与过滤
type ListParams struct {
	Page        int              // 页码(从1开始)
	PageSize    int              // 每页数量
	Search      string           // 搜索书名、作者名、出版社名
	Ordering    string           // price | -price
	PriceMin    *decimal.Decimal // 最低价格(含)
	PriceMax    *decimal.Decimal // 最高价格(含)
	CategoryID  *uint
	AuthorID    *uint
	PublisherID *uint
}

// Offset 分页偏移量
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
