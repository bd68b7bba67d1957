package rdbms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/internal/domain/category"
	"github.com/xiebiao/readify/internal/domain/review"
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 关联数据按"每种关联一次查询"加载,往返次数与行数无关
// 2. 平均分由AVG()子查询在主查询中算出,无评论时为NULL
// 3. 列表只投影展示需要的列
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// listColumns 列表投影
const listColumns = "books.id, books.title, books.price, books.slug, books.cover_image"

// bookListRow 列表行
type bookListRow struct {
	ID         uint
	Title      string
	Price      decimal.Decimal
	Slug       string
	CoverImage string
}

// List 分页查询
// 往返:count + 当页数据 + 当页作者,共3次(结果为空时2次)
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var total int64
	if err := r.filtered(ctx, params).Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "统计图书数量失败")
	}

	var rows []bookListRow
	query := r.filtered(ctx, params).Select(listColumns)
	switch params.Ordering {
	case book.OrderingPriceAsc:
		query = query.Order("books.price ASC").Order("books.id ASC")
	case book.OrderingPriceDesc:
		query = query.Order("books.price DESC").Order("books.id ASC")
	default:
		query = query.Order("books.id ASC")
	}
	err := query.
		Offset(params.Offset()).
		Limit(params.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书列表失败")
	}

	books := toListBooks(rows)
	if err := attachAuthors(ctx, r.db, books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// filtered 应用过滤条件,count和分页查询各自调用一次,避免复用同一个Statement
func (r *bookRepository) filtered(ctx context.Context, params book.ListParams) *gorm.DB {
	query := dbFrom(ctx, r.db).Model(&BookModel{})

	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			"LOWER(books.title) LIKE ? ESCAPE '!' OR "+
				"EXISTS (SELECT 1 FROM book_authors ba JOIN authors a ON a.id = ba.author_id "+
				"WHERE ba.book_id = books.id AND LOWER(a.title) LIKE ? ESCAPE '!') OR "+
				"EXISTS (SELECT 1 FROM book_publishers bp JOIN publishers p ON p.id = bp.publisher_id "+
				"WHERE bp.book_id = books.id AND LOWER(p.title) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}
	if params.PriceMin != nil {
		query = query.Where("books.price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("books.price <= ?", *params.PriceMax)
	}
	if params.CategoryID != nil {
		query = query.Where("books.category_id = ?", *params.CategoryID)
	}
	if params.AuthorID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM book_authors ba WHERE ba.book_id = books.id AND ba.author_id = ?)",
			*params.AuthorID,
		)
	}
	if params.PublisherID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM book_publishers bp WHERE bp.book_id = books.id AND bp.publisher_id = ?)",
			*params.PublisherID,
		)
	}
	return query
}

// bookDetailRow 图书+分类+直接父分类+平均分
type bookDetailRow struct {
	ID          uint
	Title       string
	Slug        string
	CoverImage  string
	Price       decimal.Decimal
	Weight      *int
	Edition     *int
	AmountPages *int
	ISBN        *string `gorm:"column:isbn"`

	CategoryID       *uint
	CategoryTitle    *string
	CategorySlug     *string
	CategoryParentID *uint
	ParentTitle      *string
	ParentSlug       *string
	ParentParentID   *uint

	AverageRating *float64
}

const detailColumns = `b.id, b.title, b.slug, b.cover_image, b.price,
	b.weight, b.edition, b.amount_pages, b.isbn, b.category_id,
	c.title AS category_title, c.slug AS category_slug, c.parent_id AS category_parent_id,
	p.title AS parent_title, p.slug AS parent_slug, p.parent_id AS parent_parent_id,
	(SELECT AVG(r.rating) FROM reviews r WHERE r.book_id = b.id) AS average_rating`

// tagRow 多对多关联行
type tagRow struct {
	ID    uint
	Title string
	Slug  string
}

// reviewRow 评论+评论人姓名
type reviewRow struct {
	ID        uint
	BookID    uint
	UserID    uint
	Title     string
	Content   string
	Rating    int
	Created   time.Time
	FirstName string
	LastName  string
}

// FindDetail 图书详情
// 往返:主查询1次 + 出版社/作者/纸张/语言各1次 + 评论1次,共6次
func (r *bookRepository) FindDetail(ctx context.Context, id uint) (*book.Book, error) {
	db := dbFrom(ctx, r.db)

	var row bookDetailRow
	result := db.Table("books AS b").
		Select(detailColumns).
		Joins("LEFT JOIN categories c ON c.id = b.category_id").
		Joins("LEFT JOIN categories p ON p.id = c.parent_id").
		Where("b.id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, apperrors.WrapDB(result.Error, "查询图书失败")
	}
	if result.RowsAffected == 0 {
		return nil, book.ErrBookNotFound
	}

	b := toDetailBook(&row)

	publishers, err := relatedOf(db, "publishers", "book_publishers", "publisher_id", "t.id, t.title, t.slug", id)
	if err != nil {
		return nil, err
	}
	for _, t := range publishers {
		b.Publishers = append(b.Publishers, book.Publisher{ID: t.ID, Title: t.Title, Slug: t.Slug})
	}

	authors, err := relatedOf(db, "authors", "book_authors", "author_id", "t.id, t.title, t.slug", id)
	if err != nil {
		return nil, err
	}
	for _, t := range authors {
		b.Authors = append(b.Authors, book.Author{ID: t.ID, Title: t.Title, Slug: t.Slug})
	}

	papers, err := relatedOf(db, "papers", "book_papers", "paper_id", "t.id, t.title", id)
	if err != nil {
		return nil, err
	}
	for _, t := range papers {
		b.Papers = append(b.Papers, book.Paper{ID: t.ID, Title: t.Title})
	}

	languages, err := relatedOf(db, "languages", "book_languages", "language_id", "t.id, t.title", id)
	if err != nil {
		return nil, err
	}
	for _, t := range languages {
		b.Languages = append(b.Languages, book.Language{ID: t.ID, Title: t.Title})
	}

	var reviews []reviewRow
	err = db.Table("reviews AS r").
		Select("r.id, r.book_id, r.user_id, r.title, r.content, r.rating, r.created, u.first_name, u.last_name").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.book_id = ?", id).
		Order("r.id").
		Scan(&reviews).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询图书评论失败")
	}
	b.Reviews = make([]review.Review, 0, len(reviews))
	for _, rv := range reviews {
		b.Reviews = append(b.Reviews, review.Review{
			ID:            rv.ID,
			BookID:        rv.BookID,
			UserID:        rv.UserID,
			UserFirstName: rv.FirstName,
			UserLastName:  rv.LastName,
			Title:         rv.Title,
			Content:       rv.Content,
			Rating:        review.Rating(rv.Rating),
			Created:       rv.Created,
		})
	}

	return b, nil
}

// Exists 图书是否存在
func (r *bookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := dbFrom(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, apperrors.WrapDB(err, "查询图书失败")
	}
	return n > 0, nil
}

// relatedOf 通过关联表查询某本书的一种多对多关联,一次往返
func relatedOf(db *gorm.DB, table, joinTable, refColumn, columns string, bookID uint) ([]tagRow, error) {
	var rows []tagRow
	err := db.Table(table+" AS t").
		Select(columns).
		Joins("JOIN "+joinTable+" j ON j."+refColumn+" = t.id").
		Where("j.book_id = ?", bookID).
		Order("t.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询图书"+table+"失败")
	}
	return rows, nil
}

// bookAuthorRow 批量作者查询结果
type bookAuthorRow struct {
	BookID uint
	ID     uint
	Title  string
}

// attachAuthors 一次查询取回全部图书的作者(只取id/title)
func attachAuthors(ctx context.Context, db *gorm.DB, books []*book.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(books))
	byID := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
		byID[b.ID] = b
	}

	var rows []bookAuthorRow
	err := dbFrom(ctx, db).Table("authors AS a").
		Select("ba.book_id, a.id, a.title").
		Joins("JOIN book_authors ba ON ba.author_id = a.id").
		Where("ba.book_id IN ?", ids).
		Order("ba.book_id").
		Order("a.id").
		Scan(&rows).Error
	if err != nil {
		return apperrors.WrapDB(err, "查询图书作者失败")
	}

	for _, row := range rows {
		if b, ok := byID[row.BookID]; ok {
			b.Authors = append(b.Authors, book.Author{ID: row.ID, Title: row.Title})
		}
	}
	return nil
}

func toListBooks(rows []bookListRow) []*book.Book {
	books := make([]*book.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, &book.Book{
			ID:         row.ID,
			Title:      row.Title,
			Price:      row.Price,
			Slug:       row.Slug,
			CoverImage: row.CoverImage,
			Authors:    []book.Author{},
		})
	}
	return books
}

func toDetailBook(row *bookDetailRow) *book.Book {
	b := &book.Book{
		ID:            row.ID,
		Title:         row.Title,
		Slug:          row.Slug,
		CoverImage:    row.CoverImage,
		Price:         row.Price,
		CategoryID:    row.CategoryID,
		Weight:        row.Weight,
		Edition:       row.Edition,
		AmountPages:   row.AmountPages,
		ISBN:          row.ISBN,
		Publishers:    []book.Publisher{},
		Authors:       []book.Author{},
		Papers:        []book.Paper{},
		Languages:     []book.Language{},
		AverageRating: review.NewAverage(row.AverageRating),
	}

	// 分类被删除后category_id置空;LEFT JOIN未命中时标题为NULL
	if row.CategoryID != nil && row.CategoryTitle != nil {
		c := &category.Category{
			ID:       *row.CategoryID,
			Title:    *row.CategoryTitle,
			Slug:     derefString(row.CategorySlug),
			ParentID: row.CategoryParentID,
		}
		if row.CategoryParentID != nil && row.ParentTitle != nil {
			c.Parent = &category.Category{
				ID:       *row.CategoryParentID,
				Title:    *row.ParentTitle,
				Slug:     derefString(row.ParentSlug),
				ParentID: row.ParentParentID,
			}
		}
		b.Category = c
	}
	return b
}

// publisherRepository 出版社仓储实现
type publisherRepository struct {
	db *gorm.DB
}

// NewPublisherRepository 创建出版社仓储
func NewPublisherRepository(db *gorm.DB) book.PublisherRepository {
	return &publisherRepository{db: db}
}

// FindDetail 出版社 + 图书 + 图书作者,共3次往返
func (r *publisherRepository) FindDetail(ctx context.Context, id uint) (*book.Publisher, error) {
	db := dbFrom(ctx, r.db)

	var model PublisherModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrPublisherNotFound
		}
		return nil, apperrors.WrapDB(err, "查询出版社失败")
	}

	books, err := booksOf(ctx, r.db, "book_publishers", "publisher_id", id)
	if err != nil {
		return nil, err
	}

	return &book.Publisher{
		ID:          model.ID,
		Title:       model.Title,
		Slug:        model.Slug,
		Image:       model.Image,
		Description: model.Description,
		Books:       books,
	}, nil
}

// authorRepository 作者仓储实现
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) book.AuthorRepository {
	return &authorRepository{db: db}
}

// FindDetail 作者 + 图书 + 图书作者,共3次往返
func (r *authorRepository) FindDetail(ctx context.Context, id uint) (*book.Author, error) {
	db := dbFrom(ctx, r.db)

	var model AuthorModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrAuthorNotFound
		}
		return nil, apperrors.WrapDB(err, "查询作者失败")
	}

	books, err := booksOf(ctx, r.db, "book_authors", "author_id", id)
	if err != nil {
		return nil, err
	}

	return &book.Author{
		ID:        model.ID,
		Title:     model.Title,
		Slug:      model.Slug,
		Image:     model.Image,
		Biography: model.Biography,
		Books:     books,
	}, nil
}

// booksOf 反向关联的图书(列表投影)及其作者
func booksOf(ctx context.Context, db *gorm.DB, joinTable, refColumn string, refID uint) ([]*book.Book, error) {
	var rows []bookListRow
	err := dbFrom(ctx, db).Table("books").
		Select(listColumns).
		Joins("JOIN "+joinTable+" j ON j.book_id = books.id").
		Where("j."+refColumn+" = ?", refID).
		Order("books.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询关联图书失败")
	}

	books := toListBooks(rows)
	if err := attachAuthors(ctx, db, books); err != nil {
		return nil, err
	}
	return books, nil
}
