package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/pkg/metrics"
)

// CreateBookUseCase 新增图书
type CreateBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewCreateBookUseCase 创建新增图书用例
func NewCreateBookUseCase(bookService book.Service, logger *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService, logger: logger}
}

// Execute 校验失败返回book.FieldErrors
func (uc *CreateBookUseCase) Execute(ctx context.Context, form book.BookForm) (*BookItem, error) {
	b, err := uc.bookService.CreateBook(ctx, form)
	if err != nil {
		return nil, err
	}

	metrics.RecordCatalogChange("book", "create")
	uc.logger.Info("图书已创建", zap.Uint("book_id", b.ID), zap.String("title", b.Title))

	item := toBookItem(b)
	return &item, nil
}

// UpdateBookUseCase 修改图书
type UpdateBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewUpdateBookUseCase 创建修改图书用例
func NewUpdateBookUseCase(bookService book.Service, logger *zap.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, logger: logger}
}

func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, form book.BookForm) (*BookItem, error) {
	b, err := uc.bookService.UpdateBook(ctx, id, form)
	if err != nil {
		return nil, err
	}

	metrics.RecordCatalogChange("book", "update")
	uc.logger.Info("图书已更新", zap.Uint("book_id", b.ID))

	item := toBookItem(b)
	return &item, nil
}

// DeleteBookUseCase 删除图书
type DeleteBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(bookService book.Service, logger *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, logger: logger}
}

func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}

	metrics.RecordCatalogChange("book", "delete")
	uc.logger.Info("图书已删除", zap.Uint("book_id", id))
	return nil
}
