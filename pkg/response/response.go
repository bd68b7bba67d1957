package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码，客户端据此判断错误类型
// 2. HTTP状态码由Code区间推导（404xx→404、401xx→401等），方便网关和监控识别
// 3. Data是业务数据，成功时返回，失败时仅在有逐字段错误时返回
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldErrors 逐字段校验错误
type FieldErrors struct {
	Fields map[string]string `json:"fields"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应（HTTP 201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	detail, err := uc.Execute(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只写日志，不返回给客户端
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.Error(appErr.Err),
		)
	}

	resp := Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		resp.Data = FieldErrors{Fields: appErr.Fields}
	}
	c.JSON(HTTPStatus(appErr.Code), resp)
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(HTTPStatus(code), Response{
		Code:    code,
		Message: message,
	})
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch code / 100 {
	case 400, 409:
		return http.StatusBadRequest
	case 401:
		if code == apperrors.ErrCodeForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case 404:
		return http.StatusNotFound
	case 429:
		return http.StatusTooManyRequests
	}
	if code == 0 {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`        // 数据列表
	Total      int64       `json:"total"`       // 总记录数
	Page       int         `json:"page"`        // 当前页码
	PageSize   int         `json:"page_size"`   // 每页大小
	TotalPages int         `json:"total_pages"` // 总页数
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
