package review

import (
	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// 评论领域错误定义
var (
	// ErrInvalidRating 评分超出1-5
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidRating, "评分必须为1-5的整数")

	// ErrUserMismatch 请求体中的user与登录用户不一致
	ErrUserMismatch = apperrors.New(apperrors.ErrCodeForbidden, "只能以当前登录用户身份发表评论")
)
