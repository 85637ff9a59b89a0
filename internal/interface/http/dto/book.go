package dto

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookapp/internal/application/pricing"
	"github.com/xiebiao/bookapp/internal/domain/book"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// BookRequest 创建/修改图书，字段值可以是字符串或数字
// 表单提交时genres重复出现：genres=1&genres=2
type BookRequest struct {
	Title           FlexString  `json:"title" example:"Dune"`
	Author          FlexString  `json:"author" example:"1"`
	PublicationYear FlexString  `json:"publication_year" example:"1965"`
	Genres          FlexStrings `json:"genres" swaggertype:"array,string" example:"1,2"`
	Price           FlexString  `json:"price" example:"19.99"`
	DiscountedPrice FlexString  `json:"discounted_price" example:""`
}

// ToForm 转为领域层的原始表单
func (r BookRequest) ToForm() book.BookForm {
	return book.BookForm{
		Title:           r.Title.String(),
		Author:          r.Author.String(),
		PublicationYear: r.PublicationYear.String(),
		Genres:          r.Genres,
		Price:           r.Price.String(),
		DiscountedPrice: r.DiscountedPrice.String(),
	}
}

// ListBooksQuery 列表查询参数
type ListBooksQuery struct {
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"dune"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=title year_desc price_asc price_desc" example:"title"`
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=0,max=100" example:"20"`
}

// NameRequest 作者/分类名称
type NameRequest struct {
	Name FlexString `json:"name" example:"Frank Herbert"`
}

// DiscountRequest 折扣比例，必须是整数
type DiscountRequest struct {
	Percentage FlexString `json:"percentage" swaggertype:"integer" example:"15"`
}

// IsForm 请求体是否为表单编码
func IsForm(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

// BindBookForm 按Content-Type读取JSON或表单
func BindBookForm(c *gin.Context) (book.BookForm, error) {
	if IsForm(c) {
		return book.BookForm{
			Title:           c.PostForm("title"),
			Author:          c.PostForm("author"),
			PublicationYear: c.PostForm("publication_year"),
			Genres:          nonEmpty(c.PostFormArray("genres")),
			Price:           c.PostForm("price"),
			DiscountedPrice: c.PostForm("discounted_price"),
		}, nil
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return book.BookForm{}, apperrors.WithCode(apperrors.ErrCodeBindError, err, "参数格式错误")
	}
	req.Genres = nonEmpty(req.Genres)
	return req.ToForm(), nil
}

// BindName 读取name字段
func BindName(c *gin.Context) (string, error) {
	if IsForm(c) {
		return c.PostForm("name"), nil
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", apperrors.WithCode(apperrors.ErrCodeBindError, err, "参数格式错误")
	}
	return req.Name.String(), nil
}

// BindPercentage 读取折扣比例
func BindPercentage(c *gin.Context) (int, error) {
	raw := c.PostForm("percentage")
	if !IsForm(c) {
		var req DiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return 0, apperrors.WithCode(apperrors.ErrCodeBindError, err, "参数格式错误")
		}
		raw = req.Percentage.String()
	}
	return pricing.ParsePercentage(raw)
}

// 空白值不算提交了分类，全部为空时按未填处理
func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
