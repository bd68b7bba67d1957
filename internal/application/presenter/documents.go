package presenter

import (
	"github.com/xiebiao/readify/internal/domain/review"
)

// 响应文档
// 每种实体只有一套成型规则,嵌套处复用同一类型

// CategoryNode 分类树节点
// Subcategories始终为数组:叶子节点与深度截断处的节点都输出[]
// Truncated只在截断处输出,表示需要通过分类详情继续展开
type CategoryNode struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Subcategories []CategoryNode `json:"subcategories"`
	Truncated     bool           `json:"truncated,omitempty"`
}

// CategoryDetail 分类子树及其祖先链
type CategoryDetail struct {
	CategoryNode
	ParentCategories []CategoryChain `json:"parent_categories"`
}

// CategoryChain 祖先链(由近到远逐层嵌套,每层至多一个元素)
type CategoryChain struct {
	Title            string          `json:"title"`
	ParentCategories []CategoryChain `json:"parent_categories"`
}

// TitleOnly 只有标题的关联
type TitleOnly struct {
	Title string `json:"title"`
}

// Related 出版社/作者引用
type Related struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// BookListItem 列表项
type BookListItem struct {
	ID         uint        `json:"id"`
	Title      string      `json:"title"`
	Price      string      `json:"price"`
	Slug       string      `json:"slug"`
	CoverImage string      `json:"cover_image"`
	Author     []TitleOnly `json:"author"`
}

// ReviewItem 图书详情中的评论
type ReviewItem struct {
	User          uint   `json:"user"`
	UserFirstName string `json:"user_first_name"`
	UserLastName  string `json:"user_last_name"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Rating        int    `json:"rating"`
	Created       string `json:"created"`
}

// BookDetail 图书详情
// AverageRating没有评论时输出null
type BookDetail struct {
	Title         string         `json:"title"`
	Category      *CategoryChain `json:"category"`
	CoverImage    string         `json:"cover_image"`
	Price         string         `json:"price"`
	Slug          string         `json:"slug"`
	Publisher     []Related      `json:"publisher"`
	Author        []Related      `json:"author"`
	Paper         []TitleOnly    `json:"paper"`
	Language      []TitleOnly    `json:"language"`
	Weight        *int           `json:"weight"`
	Edition       *int           `json:"edition"`
	AmountPages   *int           `json:"amount_pages"`
	ISBN          *string        `json:"isbn"`
	Reviews       []ReviewItem   `json:"reviews"`
	AverageRating review.Average `json:"average_rating"`
}

// PublisherDetail 出版社详情
type PublisherDetail struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Image       string         `json:"image"`
	Description string         `json:"description"`
	Slug        string         `json:"slug"`
	Books       []BookListItem `json:"books"`
}

// AuthorDetail 作者详情
type AuthorDetail struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Image     string         `json:"image"`
	Biography string         `json:"biography"`
	Slug      string         `json:"slug"`
	Books     []BookListItem `json:"books"`
}
