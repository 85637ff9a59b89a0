package book

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/book"
)

// MaxPageSize 单页上限
const MaxPageSize = 100

// ListBooksUseCase 图书列表查询（全部、按作者、按分类、按年份共用）
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 过滤条件为nil表示不过滤
type ListBooksRequest struct {
	AuthorID  *uint
	GenreName *string
	Year      *int
	Keyword   string
	SortBy    string
	Page      int
	PageSize  int // 0表示不分页
}

// ListBooksResponse 列表结果
type ListBooksResponse struct {
	List     []BookItem
	Total    int64
	Page     int
	PageSize int
}

func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 0 {
		req.PageSize = 0
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}

	switch req.SortBy {
	case book.SortTitle, book.SortYearDesc, book.SortPriceAsc, book.SortPriceDesc:
	default:
		req.SortBy = book.SortDefault
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		AuthorID:  req.AuthorID,
		GenreName: req.GenreName,
		Year:      req.Year,
		Keyword:   req.Keyword,
		SortBy:    req.SortBy,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{
		List:     toBookItems(books),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookItem, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	item := toBookItem(b)
	return &item, nil
}
