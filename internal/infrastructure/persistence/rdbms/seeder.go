package rdbms

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/readify/internal/domain/review"
)

// Fixture 初始数据(YAML)
// 各实体通过key相互引用,key只在文件内有效,不写入数据库
type Fixture struct {
	Categories []CategoryFixture  `yaml:"categories"`
	Publishers []PublisherFixture `yaml:"publishers"`
	Authors    []AuthorFixture    `yaml:"authors"`
	Papers     []string           `yaml:"papers"`
	Languages  []string           `yaml:"languages"`
	Users      []UserFixture      `yaml:"users"`
	Books      []BookFixture      `yaml:"books"`
	Reviews    []ReviewFixture    `yaml:"reviews"`
}

// CategoryFixture 父分类必须出现在子分类之前
type CategoryFixture struct {
	Key    string `yaml:"key"`
	Title  string `yaml:"title"`
	Slug   string `yaml:"slug"`
	Parent string `yaml:"parent"`
}

type PublisherFixture struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

type AuthorFixture struct {
	Key       string `yaml:"key"`
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Image     string `yaml:"image"`
	Biography string `yaml:"biography"`
}

type UserFixture struct {
	Key         string `yaml:"key"`
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	PhoneNumber string `yaml:"phone_number"`
}

type BookFixture struct {
	Key         string   `yaml:"key"`
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	CoverImage  string   `yaml:"cover_image"`
	Weight      *int     `yaml:"weight"`
	Edition     *int     `yaml:"edition"`
	AmountPages *int     `yaml:"amount_pages"`
	ISBN        *string  `yaml:"isbn"`
	Publishers  []string `yaml:"publishers"`
	Authors     []string `yaml:"authors"`
	Papers      []string `yaml:"papers"`
	Languages   []string `yaml:"languages"`
}

type ReviewFixture struct {
	Book    string `yaml:"book"`
	User    string `yaml:"user"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	Rating  int    `yaml:"rating"`
	Created string `yaml:"created"` // YYYY-MM-DD,为空时取当天
}

// SeedResult fixture key → 数据库ID
type SeedResult struct {
	Categories map[string]uint
	Publishers map[string]uint
	Authors    map[string]uint
	Users      map[string]uint
	Books      map[string]uint
	Reviews    []uint
}

// LoadFixture 读取YAML文件
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取fixture失败: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture 解析YAML内容
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("解析fixture失败: %w", err)
	}
	return &fx, nil
}

// Seeder 写入初始数据
// 整个fixture在一个事务中写入,任一步失败全部回滚
type Seeder struct {
	db         *gorm.DB
	tx         *TxManager
	bcryptCost int
}

// NewSeeder 创建Seeder,bcryptCost<=0时使用bcrypt.DefaultCost
func NewSeeder(db *gorm.DB, bcryptCost int) *Seeder {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{db: db, tx: NewTxManager(db), bcryptCost: bcryptCost}
}

// Seed 写入fixture
func (s *Seeder) Seed(ctx context.Context, fx *Fixture) (*SeedResult, error) {
	res := &SeedResult{
		Categories: map[string]uint{},
		Publishers: map[string]uint{},
		Authors:    map[string]uint{},
		Users:      map[string]uint{},
		Books:      map[string]uint{},
	}

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		db := dbFrom(ctx, s.db)
		steps := []func(*gorm.DB, *Fixture, *SeedResult) error{
			s.seedCategories,
			s.seedPublishers,
			s.seedAuthors,
			s.seedUsers,
			s.seedBooks,
			s.seedReviews,
		}
		for _, step := range steps {
			if err := step(db, fx, res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Seeder) seedCategories(db *gorm.DB, fx *Fixture, res *SeedResult) error {
	for _, c := range fx.Categories {
		model := &CategoryModel{Title: c.Title, Slug: c.Slug}
		if c.Parent != "" {
			parentID, ok := res.Categories[c.Parent]
			if !ok {
				return fmt.Errorf("分类%q的父分类%q未定义", c.Key, c.Parent)
			}
			model.ParentID = &parentID
		}
		if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("写入分类%q失败: %w", c.Key, err)
		}
		res.Categories[c.Key] = model.ID
	}
	return nil
}

func (s *Seeder) seedPublishers(db *gorm.DB, fx *Fixture, res *SeedResult) error {
	for _, p := range fx.Publishers {
		model := &PublisherModel{Title: p.Title, Slug: p.Slug, Image: p.Image, Description: p.Description}
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("写入出版社%q失败: %w", p.Key, err)
		}
		res.Publishers[p.Key] = model.ID
	}
	return nil
}

func (s *Seeder) seedAuthors(db *gorm.DB, fx *Fixture, res *SeedResult) error {
	for _, a := range fx.Authors {
		model := &AuthorModel{Title: a.Title, Slug: a.Slug, Image: a.Image, Biography: a.Biography}
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("写入作者%q失败: %w", a.Key, err)
		}
		res.Authors[a.Key] = model.ID
	}
	return nil
}

func (s *Seeder) seedUsers(db *gorm.DB, fx *Fixture, res *SeedResult) error {
	for _, u := range fx.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("用户%q密码加密失败: %w", u.Key, err)
		}
		model := &UserModel{
			Email:       u.Email,
			Password:    string(hash),
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			PhoneNumber: u.PhoneNumber,
		}
		if err := db.Create(model).Error; err != nil {
			return fmt.Errorf("写入用户%q失败: %w", u.Key, err)
		}
		res.Users[u.Key] = model.ID
	}
	return nil
}

func (s *Seeder) seedBooks(db *gorm.DB, fx *Fixture, res *SeedResult) error {
	papers, err := upsertTags(db, &PaperModel{}, "papers", fx.Papers)
	if err != nil {
		return err
	}
	languages, err := upsertTags(db, &LanguageModel{}, "languages", fx.Languages)
	if err != nil {
		return err
	}

	for _, b := range fx.Books {
		price, err := decimal.NewFromString(b.Price)
		if err != nil {
			return fmt.Errorf("图书%q价格格式错误: %w", b.Key, err)
		}
		model := &BookModel{
			Title:       b.Title,
			Slug:        b.Slug,
			Price:       price,
			CoverImage:  b.CoverImage,
			Weight:      b.Weight,
			Edition:     b.Edition,
			AmountPages: b.AmountPages,
			ISBN:        b.ISBN,
		}
		if b.Category != "" {
			id, ok := res.Categories[b.Category]
			if !ok {
				return fmt.Errorf("图书%q的分类%q未定义", b.Key, b.Category)
			}
			model.CategoryID = &id
		}
		if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("写入图书%q失败: %w", b.Key, err)
		}
		res.Books[b.Key] = model.ID

		links := []struct {
			table  string
			column string
			keys   []string
			ids    map[string]uint
		}{
			{"book_publishers", "publisher_id", b.Publishers, res.Publishers},
			{"book_authors", "author_id", b.Authors, res.Authors},
			{"book_papers", "paper_id", b.Papers, papers},
			{"book_languages", "language_id", b.Languages, languages},
		}
		for _, l := range links {
			if err := link(db, l.table, l.column, model.ID, l.keys, l.ids); err != nil {
				return fmt.Errorf("图书%q: %w", b.Key, err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedReviews(db *gorm.DB, fx *Fixture, res *SeedResult) error {
	for i, r := range fx.Reviews {
		bookID, ok := res.Books[r.Book]
		if !ok {
			return fmt.Errorf("第%d条评论的图书%q未定义", i+1, r.Book)
		}
		userID, ok := res.Users[r.User]
		if !ok {
			return fmt.Errorf("第%d条评论的用户%q未定义", i+1, r.User)
		}

		now := time.Now()
		if r.Created != "" {
			t, err := time.ParseInLocation(review.DateLayout, r.Created, time.Local)
			if err != nil {
				return fmt.Errorf("第%d条评论日期格式错误: %w", i+1, err)
			}
			now = t
		}

		rv, err := review.NewReview(bookID, userID, r.Title, r.Content, r.Rating, now)
		if err != nil {
			return fmt.Errorf("第%d条评论: %w", i+1, err)
		}
		model := &ReviewModel{
			BookID:  rv.BookID,
			UserID:  rv.UserID,
			Title:   rv.Title,
			Content: rv.Content,
			Rating:  int(rv.Rating),
			Created: rv.Created,
		}
		if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("写入第%d条评论失败: %w", i+1, err)
		}
		res.Reviews = append(res.Reviews, model.ID)
	}
	return nil
}

// upsertTags 纸张/语言按标题写入,返回标题→ID
func upsertTags(db *gorm.DB, model interface{}, table string, titles []string) (map[string]uint, error) {
	ids := make(map[string]uint, len(titles))
	for _, title := range titles {
		var row struct{ ID uint }
		if err := db.Table(table).Select("id").Where("title = ?", title).Limit(1).Scan(&row).Error; err != nil {
			return nil, fmt.Errorf("查询%s失败: %w", table, err)
		}
		if row.ID == 0 {
			if err := db.Model(model).Create(map[string]interface{}{"title": title}).Error; err != nil {
				return nil, fmt.Errorf("写入%s %q失败: %w", table, title, err)
			}
			if err := db.Table(table).Select("id").Where("title = ?", title).Limit(1).Scan(&row).Error; err != nil {
				return nil, fmt.Errorf("查询%s失败: %w", table, err)
			}
		}
		ids[title] = row.ID
	}
	return ids, nil
}

// link 写入关联表
func link(db *gorm.DB, table, column string, bookID uint, keys []string, ids map[string]uint) error {
	if len(keys) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		id, ok := ids[key]
		if !ok {
			return fmt.Errorf("%s引用的%q未定义", table, key)
		}
		rows = append(rows, map[string]interface{}{"book_id": bookID, column: id})
	}
	if err := db.Table(table).Create(rows).Error; err != nil {
		return fmt.Errorf("写入%s失败: %w", table, err)
	}
	return nil
}
