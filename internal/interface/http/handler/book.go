package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookapp/internal/application/book"
	"github.com/xiebiao/bookapp/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
	"github.com/xiebiao/bookapp/pkg/response"
)

// BooksPath 图书列表地址，表单提交成功后跳转到这里
const BooksPath = "/api/v1/books"

// 空列表提示
const (
	MsgNoBooks   = "No books found"
	MsgNoAuthors = "No authors found"
	MsgNoGenres  = "No genres found"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooks  *appbook.ListBooksUseCase
	getBook    *appbook.GetBookUseCase
	createBook *appbook.CreateBookUseCase
	updateBook *appbook.UpdateBookUseCase
	deleteBook *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooks *appbook.ListBooksUseCase,
	getBook *appbook.GetBookUseCase,
	createBook *appbook.CreateBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooks:  listBooks,
		getBook:    getBook,
		createBook: createBook,
		updateBook: updateBook,
		deleteBook: deleteBook,
	}
}

// List 图书列表
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        keyword   query string false "标题或作者关键字"
// @Param        sort_by   query string false "title | year_desc | price_asc | price_desc"
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量，0表示不分页"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookItem}}
// @Failure      302 "未登录，跳转登录页"
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.WithCode(apperrors.ErrCodeInvalidParams, err, "参数错误"))
		return
	}
	h.list(c, appbook.ListBooksRequest{
		Keyword:  q.Keyword,
		SortBy:   q.SortBy,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}

// ListByAuthor 某作者的图书
// @Summary      按作者查询图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        author_id path int true "作者ID"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookItem}}
// @Failure      404 {object} response.Response "作者ID不是整数"
// @Router       /api/v1/books/author/{author_id} [get]
func (h *BookHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "author_id")
	if !ok {
		return
	}
	h.list(c, appbook.ListBooksRequest{AuthorID: &authorID})
}

// ListByGenre 某分类下的图书（按名称精确匹配，结果去重）
// @Summary      按分类查询图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        genre_name path string true "分类名称"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookItem}}
// @Router       /api/v1/books/genre/{genre_name} [get]
func (h *BookHandler) ListByGenre(c *gin.Context) {
	name := c.Param("genre_name")
	h.list(c, appbook.ListBooksRequest{GenreName: &name})
}

// ListByYear 某年份出版的图书
// @Summary      按出版年份查询图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        year path int true "出版年份"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookItem}}
// @Failure      404 {object} response.Response "年份不是整数"
// @Router       /api/v1/books/year/{year} [get]
func (h *BookHandler) ListByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}
	h.list(c, appbook.ListBooksRequest{Year: &year})
}

func (h *BookHandler) list(c *gin.Context, req appbook.ListBooksRequest) {
	result, err := h.listBooks.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize, MsgNoBooks)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookItem}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.getBook.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// Create 新增图书
// 表单提交成功后302跳转到列表；JSON返回201
// @Summary      新增图书
// @Tags         图书
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookItem}
// @Success      302 "表单提交成功，跳转到图书列表"
// @Failure      400 {object} response.Response{data=response.ValidationData} "表单校验失败"
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	form, err := dto.BindBookForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.createBook.Execute(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}

	if dto.IsForm(c) {
		c.Redirect(http.StatusFound, BooksPath)
		return
	}
	c.Header("Location", BooksPath)
	response.Created(c, item)
}

// Update 修改图书，整体替换全部字段（包括分类）
// @Summary      修改图书
// @Tags         图书
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int             true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookItem}
// @Success      302 "表单提交成功，跳转到图书列表"
// @Failure      400 {object} response.Response{data=response.ValidationData} "表单校验失败"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
// @Router       /api/v1/books/{id}/update [post]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	form, err := dto.BindBookForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.updateBook.Execute(c.Request.Context(), id, form)
	if err != nil {
		response.Error(c, err)
		return
	}

	if dto.IsForm(c) {
		c.Redirect(http.StatusFound, BooksPath)
		return
	}
	c.Header("Location", BooksPath)
	response.Success(c, item)
}

// Delete 删除图书
// POST别名（表单确认删除）成功后302跳转到列表
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Success      302 "跳转到图书列表"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
// @Router       /api/v1/books/{id}/delete [post]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deleteBook.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	if c.Request.Method == http.MethodPost {
		c.Redirect(http.StatusFound, BooksPath)
		return
	}
	response.SuccessWithMessage(c, "deleted", nil)
}

// pathID 解析路径中的ID，非正整数按资源不存在处理
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}
