package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/readify/internal/application/review"
	"github.com/xiebiao/readify/internal/interface/http/dto"
	"github.com/xiebiao/readify/internal/interface/http/middleware"
	"github.com/xiebiao/readify/pkg/response"
)

// ReviewHandler 评论HTTP处理器
type ReviewHandler struct {
	createUseCase *appreview.CreateReviewUseCase
}

// NewReviewHandler 创建评论处理器
func NewReviewHandler(createUseCase *appreview.CreateReviewUseCase) *ReviewHandler {
	return &ReviewHandler{createUseCase: createUseCase}
}

// Create 发表评论
// @Summary      发表评论
// @Description  评分为1-5;评论人取自登录凭证,请求体中的user提供时必须与之一致
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateReviewRequest true "评论内容"
// @Success      201 {object} response.Response{data=appreview.CreateReviewResponse}
// @Failure      400 {object} response.Response{data=response.FieldErrors} "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "user与登录用户不一致"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /api/v1/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appreview.CreateReviewRequest{
		BookID:          req.Book,
		UserID:          middleware.GetUserID(c),
		RequestedUserID: req.User,
		Title:           req.Title,
		Content:         req.Content,
		Rating:          req.Rating,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
