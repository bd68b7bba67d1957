package rdbms

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/readify/pkg/slug"
)

// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. domain层实体不依赖GORM,Repository负责两者之间的转换
// 3. 多对多关联表显式命名列(book_id/author_id...),查询时直接联表,不走Preload

// CategoryModel 分类模型(自引用)
// 删除父分类时子分类parent_id置空,子树成为新的根
type CategoryModel struct {
	ID       uint           `gorm:"primaryKey"`
	Title    string         `gorm:"size:255;not null;comment:分类名称"`
	Slug     string         `gorm:"uniqueIndex;size:255;not null;comment:URL标识"`
	ParentID *uint          `gorm:"index;comment:父分类ID(NULL为根分类)"`
	Parent   *CategoryModel `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BeforeCreate 未指定slug时由标题生成
func (m *CategoryModel) BeforeCreate(*gorm.DB) error {
	if m.Slug == "" {
		m.Slug = slug.Generate(m.Title)
	}
	return nil
}

// PublisherModel 出版社模型
type PublisherModel struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null;comment:出版社名称"`
	Image       string `gorm:"size:500;comment:Logo相对路径"`
	Description string `gorm:"type:text;comment:简介"`
	Slug        string `gorm:"uniqueIndex;size:255;not null;comment:URL标识"`
}

// TableName 指定表名
func (PublisherModel) TableName() string {
	return "publishers"
}

// BeforeCreate 未指定slug时由名称生成
func (m *PublisherModel) BeforeCreate(*gorm.DB) error {
	if m.Slug == "" {
		m.Slug = slug.Generate(m.Title)
	}
	return nil
}

// AuthorModel 作者模型
type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"index;size:255;not null;comment:作者姓名"`
	Image     string `gorm:"size:500;comment:头像相对路径"`
	Biography string `gorm:"type:text;comment:传记"`
	Slug      string `gorm:"uniqueIndex;size:255;not null;comment:URL标识"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// BeforeCreate 未指定slug时由姓名生成
func (m *AuthorModel) BeforeCreate(*gorm.DB) error {
	if m.Slug == "" {
		m.Slug = slug.Generate(m.Title)
	}
	return nil
}

// PaperModel 纸张类型
type PaperModel struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"uniqueIndex;size:255;not null;comment:纸张类型"`
}

// TableName 指定表名
func (PaperModel) TableName() string {
	return "papers"
}

// LanguageModel 语言
type LanguageModel struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"uniqueIndex;size:255;not null;comment:语言"`
}

// TableName 指定表名
func (LanguageModel) TableName() string {
	return "languages"
}

// BookModel 图书模型
// 设计说明:
// 1. 价格decimal(6,2),最大9999.99
// 2. 重量、版次、页数、ISBN可为空
// 3. 四个多对多关联只用于建表(AutoMigrate生成关联表),读取时显式联表
type BookModel struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"index;size:255;not null;comment:书名"`
	CategoryID  *uint           `gorm:"index;comment:分类ID"`
	Category    *CategoryModel  `gorm:"constraint:OnDelete:SET NULL"`
	CoverImage  string          `gorm:"size:500;comment:封面相对路径"`
	Price       decimal.Decimal `gorm:"type:decimal(6,2);index;not null;comment:价格"`
	Slug        string          `gorm:"uniqueIndex;size:255;not null;comment:URL标识"`
	Weight      *int            `gorm:"type:smallint;comment:重量(克)"`
	Edition     *int            `gorm:"type:smallint;comment:版次"`
	AmountPages *int            `gorm:"type:smallint;comment:页数"`
	ISBN        *string         `gorm:"column:isbn;size:20;comment:ISBN号"`

	Publishers []PublisherModel `gorm:"many2many:book_publishers;joinForeignKey:BookID;joinReferences:PublisherID"`
	Authors    []AuthorModel    `gorm:"many2many:book_authors;joinForeignKey:BookID;joinReferences:AuthorID"`
	Papers     []PaperModel     `gorm:"many2many:book_papers;joinForeignKey:BookID;joinReferences:PaperID"`
	Languages  []LanguageModel  `gorm:"many2many:book_languages;joinForeignKey:BookID;joinReferences:LanguageID"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BeforeCreate 未指定slug时由书名生成
func (m *BookModel) BeforeCreate(*gorm.DB) error {
	if m.Slug == "" {
		m.Slug = slug.Generate(m.Title)
	}
	return nil
}

// UserModel 用户模型
type UserModel struct {
	ID          uint      `gorm:"primaryKey"`
	Email       string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password    string    `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	FirstName   string    `gorm:"size:50;not null;comment:名"`
	LastName    string    `gorm:"size:50;comment:姓"`
	PhoneNumber string    `gorm:"size:10;comment:手机号"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ReviewModel 评论模型
// 删除图书或用户时级联删除评论
type ReviewModel struct {
	ID      uint       `gorm:"primaryKey"`
	BookID  uint       `gorm:"index;not null;comment:图书ID"`
	Book    *BookModel `gorm:"constraint:OnDelete:CASCADE"`
	UserID  uint       `gorm:"index;not null;comment:用户ID"`
	User    *UserModel `gorm:"constraint:OnDelete:CASCADE"`
	Title   string     `gorm:"size:255;not null;comment:标题"`
	Content string     `gorm:"type:text;not null;comment:内容"`
	Rating  int        `gorm:"not null;check:rating >= 1 AND rating <= 5;comment:评分(1-5)"`
	Created time.Time  `gorm:"type:date;not null;comment:创建日期"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}

// allModels 需要迁移的模型(顺序即建表顺序,被引用的表在前)
func allModels() []interface{} {
	return []interface{}{
		&CategoryModel{},
		&PublisherModel{},
		&AuthorModel{},
		&PaperModel{},
		&LanguageModel{},
		&BookModel{},
		&UserModel{},
		&ReviewModel{},
	}
}
