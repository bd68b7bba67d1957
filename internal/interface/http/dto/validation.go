package dto

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

func init() {
	// 校验错误使用json/form标签名作为字段名,与请求体字段一致
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(tagName)
	}
}

func tagName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// BindError 把绑定/校验失败转换为逐字段的AppError
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = message(fe)
		}
		return fieldsError(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fieldsError(map[string]string{typeErr.Field: "类型错误,应为" + typeErr.Type.String()})
	}

	return &apperrors.AppError{
		Code:    apperrors.ErrBindError.Code,
		Message: apperrors.ErrBindError.Message,
		Err:     err,
	}
}

func fieldsError(fields map[string]string) error {
	return apperrors.Validation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min":
		return "不能小于" + fe.Param()
	case "max":
		return "不能超过" + fe.Param()
	case "len":
		return "长度应为" + fe.Param()
	case "numeric":
		return "必须为数字"
	case "oneof":
		return "取值必须为" + strings.ReplaceAll(fe.Param(), " ", "/") + "之一"
	default:
		return "校验失败: " + fe.Tag()
	}
}
