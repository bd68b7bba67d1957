package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/readify/internal/application/category"
	"github.com/xiebiao/readify/internal/domain/category"
	"github.com/xiebiao/readify/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	listUseCase *appcategory.ListCategoriesUseCase
	getUseCase  *appcategory.GetCategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(
	listUseCase *appcategory.ListCategoriesUseCase,
	getUseCase *appcategory.GetCategoryUseCase,
) *CategoryHandler {
	return &CategoryHandler{
		listUseCase: listUseCase,
		getUseCase:  getUseCase,
	}
}

// List 分类树
// @Summary      分类树
// @Description  返回全部根分类及其子分类,超过深度上限的节点标记truncated
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]presenter.CategoryNode}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	nodes, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nodes)
}

// Get 分类详情
// @Summary      分类详情
// @Description  以该分类为根的子树及祖先链
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=presenter.CategoryDetail}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := pathID(c, category.ErrCategoryNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}
