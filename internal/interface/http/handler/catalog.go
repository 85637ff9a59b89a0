package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookapp/internal/application/book"
	"github.com/xiebiao/bookapp/internal/interface/http/dto"
	"github.com/xiebiao/bookapp/pkg/response"
)

// AuthorsPath 作者列表地址
const AuthorsPath = "/api/v1/authors"

// GenresPath 分类列表地址
const GenresPath = "/api/v1/genres"

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	authors *appbook.AuthorUseCase
}

func NewAuthorHandler(authors *appbook.AuthorUseCase) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// List 作者列表
// @Summary      作者列表
// @Tags         作者
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.AuthorItem}}
// @Router       /api/v1/authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	items, err := h.authors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, items, int64(len(items)), 1, 0, MsgNoAuthors)
}

// Create 新增作者
// @Summary      新增作者
// @Tags         作者
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.NameRequest true "作者名称"
// @Success      201 {object} response.Response{data=appbook.AuthorItem}
// @Failure      400 {object} response.Response{data=response.ValidationData} "表单校验失败"
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	name, err := dto.BindName(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.authors.Create(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, AuthorsPath, item)
}

// Delete 删除作者及其全部图书
// @Summary      删除作者
// @Tags         作者
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response{data=appbook.DeleteAuthorResponse}
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /api/v1/authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.authors.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GenreHandler 分类HTTP处理器
type GenreHandler struct {
	genres *appbook.GenreUseCase
}

func NewGenreHandler(genres *appbook.GenreUseCase) *GenreHandler {
	return &GenreHandler{genres: genres}
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.GenreItem}}
// @Router       /api/v1/genres [get]
func (h *GenreHandler) List(c *gin.Context) {
	items, err := h.genres.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, items, int64(len(items)), 1, 0, MsgNoGenres)
}

// Create 新增分类
// @Summary      新增分类
// @Tags         分类
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.NameRequest true "分类名称"
// @Success      201 {object} response.Response{data=appbook.GenreItem}
// @Failure      400 {object} response.Response{data=response.ValidationData} "表单校验失败"
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/v1/genres [post]
func (h *GenreHandler) Create(c *gin.Context) {
	name, err := dto.BindName(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.genres.Create(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}
	created(c, GenresPath, item)
}

// created 表单提交302跳转到列表，JSON返回201
func created(c *gin.Context, listPath string, data interface{}) {
	if dto.IsForm(c) {
		c.Redirect(http.StatusFound, listPath)
		return
	}
	c.Header("Location", listPath)
	response.Created(c, data)
}
