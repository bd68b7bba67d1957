package book

import (
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrPublisherNotFound 出版社不存在
	ErrPublisherNotFound = apperrors.New(apperrors.ErrCodePublisherNotFound, "出版社不存在")

	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")
)
