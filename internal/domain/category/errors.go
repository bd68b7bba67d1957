package category

import (
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrCategoryCycle 父子关系成环(数据不一致)
	ErrCategoryCycle = apperrors.New(apperrors.ErrCodeDataCorrupted, "分类层级存在循环引用")
)
