package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// Response 统一响应结构
// Code=0表示成功，否则为业务错误码；HTTP状态码由错误码推导
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FieldErrors 由表单校验错误实现，按字段返回错误信息
type FieldErrors interface {
	error
	FieldMessages() map[string][]string
}

// ValidationData 表单校验失败时的data结构
type ValidationData struct {
	Errors map[string][]string `json:"errors"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, "success", data)
}

// SuccessWithMessage 成功响应并自定义提示
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Created 资源创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Accepted 已受理，异步处理（202）
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, Response{
		Code:    0,
		Message: "accepted",
		Data:    data,
	})
}

// Error 错误响应
// 用法：
//
//	if err := svc.CreateBook(...); err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, Response{
			Code:    apperrors.ErrCodeValidation,
			Message: "表单校验失败",
			Data:    ValidationData{Errors: fieldErrs.FieldMessages()},
		})
		return
	}

	appErr := apperrors.GetAppError(err)
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(apperrors.HTTPStatus(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), Response{
		Code:    code,
		Message: message,
	})
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageData 创建分页数据，pageSize为0表示不分页
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	switch {
	case pageSize <= 0:
		if total > 0 {
			totalPages = 1
		}
	default:
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

// SuccessWithPage 分页成功响应，空列表时使用emptyMessage作为提示
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int, emptyMessage string) {
	message := "success"
	if total == 0 && emptyMessage != "" {
		message = emptyMessage
	}
	SuccessWithMessage(c, message, NewPageData(list, total, page, pageSize))
}
