package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/readify/internal/application/book"
	"github.com/xiebiao/readify/internal/domain/book"
	"github.com/xiebiao/readify/internal/interface/http/dto"
	"github.com/xiebiao/readify/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listUseCase   *appbook.ListBooksUseCase
	detailUseCase *appbook.GetBookDetailUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listUseCase *appbook.ListBooksUseCase,
	detailUseCase *appbook.GetBookDetailUseCase,
) *BookHandler {
	return &BookHandler{
		listUseCase:   listUseCase,
		detailUseCase: detailUseCase,
	}
}

// List 图书列表
// @Summary      图书列表
// @Description  分页查询,支持按标题/作者/出版社搜索、价格区间、分类、作者、出版社过滤,按价格排序
// @Tags         图书
// @Produce      json
// @Param        page       query int    false "页码"
// @Param        page_size  query int    false "每页数量"
// @Param        search     query string false "搜索关键字"
// @Param        ordering   query string false "排序" Enums(price, -price)
// @Param        price_min  query string false "最低价格"
// @Param        price_max  query string false "最高价格"
// @Param        category   query int    false "分类ID"
// @Param        author     query int    false "作者ID"
// @Param        publisher  query int    false "出版社ID"
// @Success      200 {object} response.Response{data=response.PageData{list=[]presenter.BookListItem}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	priceMin, priceMax, err := q.Prices()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:        q.Page,
		PageSize:    q.PageSize,
		Search:      q.Search,
		Ordering:    q.Ordering,
		PriceMin:    priceMin,
		PriceMax:    priceMax,
		CategoryID:  q.Category,
		AuthorID:    q.Author,
		PublisherID: q.Publisher,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Get 图书详情
// @Summary      图书详情
// @Description  含分类祖先链、出版社、作者、纸张、语言、评论与平均分(无评论时为null)
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=presenter.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, err := pathID(c, book.ErrBookNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.detailUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// PublisherHandler 出版社HTTP处理器
type PublisherHandler struct {
	detailUseCase *appbook.GetPublisherDetailUseCase
}

// NewPublisherHandler 创建出版社处理器
func NewPublisherHandler(detailUseCase *appbook.GetPublisherDetailUseCase) *PublisherHandler {
	return &PublisherHandler{detailUseCase: detailUseCase}
}

// Get 出版社详情
// @Summary      出版社详情
// @Tags         出版社
// @Produce      json
// @Param        id path int true "出版社ID"
// @Success      200 {object} response.Response{data=presenter.PublisherDetail}
// @Failure      404 {object} response.Response "出版社不存在"
// @Router       /api/v1/publishers/{id} [get]
func (h *PublisherHandler) Get(c *gin.Context) {
	id, err := pathID(c, book.ErrPublisherNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.detailUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	detailUseCase *appbook.GetAuthorDetailUseCase
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(detailUseCase *appbook.GetAuthorDetailUseCase) *AuthorHandler {
	return &AuthorHandler{detailUseCase: detailUseCase}
}

// Get 作者详情
// @Summary      作者详情
// @Tags         作者
// @Produce      json
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response{data=presenter.AuthorDetail}
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /api/v1/authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	id, err := pathID(c, book.ErrAuthorNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.detailUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}
