package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（HTTP状态码由response包按Code区间推导）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
// 4. Fields携带逐字段的校验失败信息（如rating超出1-5）
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapDB 包装数据库错误，错误码为ErrCodeDatabaseError
func WrapDB(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// Validation 创建逐字段的参数校验错误
func Validation(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidParams,
		Message: "参数错误",
		Fields:  fields,
	}
}

// WithField 返回附带单个字段错误的副本，不修改预定义错误
func (e *AppError) WithField(field, message string) *AppError {
	fields := make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[field] = message
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  fields,
		Err:     e.Err,
	}
}

// Is 按错误码比较，使WithField得到的副本仍能匹配原始哨兵错误
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e == t || (e.Code == t.Code && e.Message == t.Message)
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeDataCorrupted = 50003 // 数据不一致（如分类父子关系成环）

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound          = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound      = 40401 // 用户不存在
	ErrCodeBookNotFound      = 40402 // 图书不存在
	ErrCodeCategoryNotFound  = 40403 // 分类不存在
	ErrCodePublisherNotFound = 40404 // 出版社不存在
	ErrCodeAuthorNotFound    = 40405 // 作者不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError  = 40000 // 业务错误(通用)
	ErrCodeEmailDuplicate = 40003 // 邮箱已存在
	ErrCodeWeakPassword   = 40005 // 密码强度不足
	ErrCodeInvalidRating  = 40006 // 评分超出范围
	ErrCodeDuplicateEntry = 40009 // 重复记录(通用)

	// 限流（42900-42999）
	ErrCodeTooManyRequests = 42900 // 请求过于频繁

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrNotFound     = New(ErrCodeNotFound, "资源不存在")
	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound = New(ErrCodeBookNotFound, "图书不存在")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 限流
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsNotFound 判断错误码是否属于资源不存在区间（404xx）
func IsNotFound(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code/100 == 404
}
