package dto

import (
	"github.com/shopspring/decimal"
)

// ListBooksQuery 图书列表查询参数
// 价格区间以字符串接收,再解析为decimal,避免浮点误差
type ListBooksQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1" example:"20"`
	Search    string `form:"search" binding:"max=100" example:"tolkien"`
	Ordering  string `form:"ordering" binding:"omitempty,oneof=price -price" example:"-price"`
	PriceMin  string `form:"price_min" binding:"omitempty,numeric" example:"10.00"`
	PriceMax  string `form:"price_max" binding:"omitempty,numeric" example:"50.00"`
	Category  *uint  `form:"category" example:"3"`
	Author    *uint  `form:"author" example:"7"`
	Publisher *uint  `form:"publisher" example:"2"`
}

// Prices 解析价格区间,空值返回nil
func (q ListBooksQuery) Prices() (lo, hi *decimal.Decimal, err error) {
	fields := map[string]string{}
	lo = parsePrice(q.PriceMin, "price_min", fields)
	hi = parsePrice(q.PriceMax, "price_max", fields)
	if len(fields) > 0 {
		return nil, nil, fieldsError(fields)
	}
	return lo, hi, nil
}

func parsePrice(raw, field string, fields map[string]string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		fields[field] = "价格格式不正确"
		return nil
	}
	return &d
}

// CreateReviewRequest 创建评论请求
// user可省略,提供时必须与登录用户一致
type CreateReviewRequest struct {
	Book    uint   `json:"book" binding:"required" example:"1"`
	User    uint   `json:"user" example:"1"`
	Title   string `json:"title" binding:"required,max=255" example:"Great read"`
	Content string `json:"content" binding:"required" example:"Could not put it down"`
	Rating  int    `json:"rating" binding:"required,oneof=1 2 3 4 5" example:"5"`
}
