package book

import (
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// 图书领域错误定义
var (
	ErrBookNotFound   = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")
	ErrGenreNotFound  = apperrors.New(apperrors.ErrCodeGenreNotFound, "分类不存在")

	// ErrMissingPrice 图书未定价，无法计算折扣
	ErrMissingPrice = apperrors.New(apperrors.ErrCodeBusinessError, "图书未定价")

	// ErrInvalidDiscount 折扣比例必须在0-100之间
	ErrInvalidDiscount = apperrors.New(apperrors.ErrCodeInvalidDiscount, "折扣比例必须在0-100之间")
)
