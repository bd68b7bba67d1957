package book

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/readify/internal/domain/category"
	"github.com/xiebiao/readify/internal/domain/review"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. 价格使用decimal存储(decimal(6,2)),避免浮点数精度问题
// 2. 出版社、作者、纸张、语言均为可选的多对多分类属性,数量可以为0
// 3. AverageRating由存储层AVG()在主查询中一并算出,不读取全部评论在内存中求平均
// 4. 列表查询只填充ID/Title/Price/Slug/CoverImage/Authors(仅ID、Title)
type Book struct {
	ID          uint
	Title       string
	Slug        string
	CoverImage  string
	Price       decimal.Decimal
	CategoryID  *uint
	Category    *category.Category // 详情查询时预加载,Category.Parent为直接父分类
	Weight      *int
	Edition     *int
	AmountPages *int
	ISBN        *string

	Publishers []Publisher
	Authors    []Author
	Papers     []Paper
	Languages  []Language

	Reviews       []review.Review
	AverageRating review.Average
}

// Publisher 出版社
// Books为反向关联(引用该出版社的图书),仅详情查询时填充
type Publisher struct {
	ID          uint
	Title       string
	Slug        string
	Image       string
	Description string
	Books       []*Book
}

// Author 作者
type Author struct {
	ID        uint
	Title     string
	Slug      string
	Image     string
	Biography string
	Books     []*Book
}

// Paper 纸张类型(标签实体)
type Paper struct {
	ID    uint
	Title string
}

// Language 语言(标签实体)
type Language struct {
	ID    uint
	Title string
}
