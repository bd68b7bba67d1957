// Package presenter 把领域对象图成型为响应文档
//
// 除祖先链外不发出任何查询:祖先链向上逐级单行读取,不受分类树深度上限约束。
package presenter

import (
	"context"
	"strings"

	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/internal/domain/category"
)

// Presenter 响应文档成型
type Presenter struct {
	mediaURL string
	parents  category.ParentLoader
}

// New 创建Presenter
// mediaURL为封面、头像等相对路径的访问前缀,为空时原样输出
func New(mediaURL string, parents category.ParentLoader) *Presenter {
	return &Presenter{mediaURL: mediaURL, parents: parents}
}

// CategoryForest 分类森林
func (p *Presenter) CategoryForest(forest category.Forest) []CategoryNode {
	out := make([]CategoryNode, 0, len(forest))
	for _, n := range forest {
		out = append(out, p.categoryNode(n))
	}
	return out
}

func (p *Presenter) categoryNode(n *category.Node) CategoryNode {
	node := CategoryNode{
		ID:            n.ID,
		Title:         n.Title,
		Slug:          n.Slug,
		Subcategories: make([]CategoryNode, 0, len(n.Children)),
		Truncated:     n.Truncated,
	}
	for _, child := range n.Children {
		node.Subcategories = append(node.Subcategories, p.categoryNode(child))
	}
	return node
}

// CategoryDetail 子树 + 祖先链
func (p *Presenter) CategoryDetail(ctx context.Context, c *category.Category, subtree *category.Node) (*CategoryDetail, error) {
	parents, err := p.parentChain(ctx, c)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{
		CategoryNode:     p.categoryNode(subtree),
		ParentCategories: parents,
	}, nil
}

// categoryChain 分类本身及其祖先链,c为nil时返回nil(输出null)
func (p *Presenter) categoryChain(ctx context.Context, c *category.Category) (*CategoryChain, error) {
	if c == nil {
		return nil, nil
	}
	parents, err := p.parentChain(ctx, c)
	if err != nil {
		return nil, err
	}
	return &CategoryChain{Title: c.Title, ParentCategories: parents}, nil
}

// parentChain 祖先[P1, P2, ..., Root]嵌套为[{P1, [{P2, [...{Root, []}]}]}]
func (p *Presenter) parentChain(ctx context.Context, c *category.Category) ([]CategoryChain, error) {
	ancestors, err := category.Ancestors(ctx, p.parents, c)
	if err != nil {
		return nil, err
	}

	chain := []CategoryChain{}
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = []CategoryChain{{Title: ancestors[i].Title, ParentCategories: chain}}
	}
	return chain, nil
}

// BookList 列表项
func (p *Presenter) BookList(books []*book.Book) []BookListItem {
	out := make([]BookListItem, 0, len(books))
	for _, b := range books {
		authors := make([]TitleOnly, 0, len(b.Authors))
		for _, a := range b.Authors {
			authors = append(authors, TitleOnly{Title: a.Title})
		}
		out = append(out, BookListItem{
			ID:         b.ID,
			Title:      b.Title,
			Price:      b.Price.StringFixed(2),
			Slug:       b.Slug,
			CoverImage: p.Media(b.CoverImage),
			Author:     authors,
		})
	}
	return out
}

// BookDetail 图书详情
func (p *Presenter) BookDetail(ctx context.Context, b *book.Book) (*BookDetail, error) {
	chain, err := p.categoryChain(ctx, b.Category)
	if err != nil {
		return nil, err
	}

	d := &BookDetail{
		Title:         b.Title,
		Category:      chain,
		CoverImage:    p.Media(b.CoverImage),
		Price:         b.Price.StringFixed(2),
		Slug:          b.Slug,
		Publisher:     make([]Related, 0, len(b.Publishers)),
		Author:        make([]Related, 0, len(b.Authors)),
		Paper:         make([]TitleOnly, 0, len(b.Papers)),
		Language:      make([]TitleOnly, 0, len(b.Languages)),
		Weight:        b.Weight,
		Edition:       b.Edition,
		AmountPages:   b.AmountPages,
		ISBN:          b.ISBN,
		Reviews:       make([]ReviewItem, 0, len(b.Reviews)),
		AverageRating: b.AverageRating,
	}
	for _, x := range b.Publishers {
		d.Publisher = append(d.Publisher, Related{ID: x.ID, Title: x.Title, Slug: x.Slug})
	}
	for _, x := range b.Authors {
		d.Author = append(d.Author, Related{ID: x.ID, Title: x.Title, Slug: x.Slug})
	}
	for _, x := range b.Papers {
		d.Paper = append(d.Paper, TitleOnly{Title: x.Title})
	}
	for _, x := range b.Languages {
		d.Language = append(d.Language, TitleOnly{Title: x.Title})
	}
	for _, r := range b.Reviews {
		d.Reviews = append(d.Reviews, ReviewItem{
			User:          r.UserID,
			UserFirstName: r.UserFirstName,
			UserLastName:  r.UserLastName,
			Title:         r.Title,
			Content:       r.Content,
			Rating:        int(r.Rating),
			Created:       r.CreatedDate(),
		})
	}
	return d, nil
}

// PublisherDetail 出版社详情
func (p *Presenter) PublisherDetail(pub *book.Publisher) *PublisherDetail {
	return &PublisherDetail{
		ID:          pub.ID,
		Title:       pub.Title,
		Image:       p.Media(pub.Image),
		Description: pub.Description,
		Slug:        pub.Slug,
		Books:       p.BookList(pub.Books),
	}
}

// AuthorDetail 作者详情
func (p *Presenter) AuthorDetail(a *book.Author) *AuthorDetail {
	return &AuthorDetail{
		ID:        a.ID,
		Title:     a.Title,
		Image:     p.Media(a.Image),
		Biography: a.Biography,
		Slug:      a.Slug,
		Books:     p.BookList(a.Books),
	}
}

// Media 相对路径加上访问前缀;空值、绝对URL、以/开头的路径原样返回
func (p *Presenter) Media(path string) string {
	if path == "" || p.mediaURL == "" {
		return path
	}
	if strings.HasPrefix(path, "/") || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimSuffix(p.mediaURL, "/") + "/" + path
}
