package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/readify/internal/application/user"
	"github.com/xiebiao/readify/internal/interface/http/dto"
	"github.com/xiebiao/readify/internal/interface/http/middleware"
	"github.com/xiebiao/readify/pkg/response"
)

// UserHandler 用户HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.UserInfo} "注册成功"
// @Failure      400 {object} response.Response "参数错误或邮箱已存在"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并注销当前Access Token
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetClaims(c), middleware.GetAccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
