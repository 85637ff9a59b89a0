package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/pkg/metrics"
)

// AuthorUseCase 作者的查询、新增与级联删除
type AuthorUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewAuthorUseCase 创建作者用例
func NewAuthorUseCase(bookService book.Service, logger *zap.Logger) *AuthorUseCase {
	return &AuthorUseCase{bookService: bookService, logger: logger}
}

func (uc *AuthorUseCase) List(ctx context.Context) ([]AuthorItem, error) {
	authors, err := uc.bookService.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]AuthorItem, len(authors))
	for i, a := range authors {
		items[i] = toAuthorItem(a)
	}
	return items, nil
}

func (uc *AuthorUseCase) Create(ctx context.Context, name string) (*AuthorItem, error) {
	a, err := uc.bookService.CreateAuthor(ctx, name)
	if err != nil {
		return nil, err
	}
	metrics.RecordCatalogChange("author", "create")

	item := toAuthorItem(a)
	return &item, nil
}

// DeleteAuthorResponse 删除结果
type DeleteAuthorResponse struct {
	AuthorID     uint  `json:"author_id"`
	DeletedBooks int64 `json:"deleted_books"`
}

// Delete 作者名下图书一并删除
func (uc *AuthorUseCase) Delete(ctx context.Context, id uint) (*DeleteAuthorResponse, error) {
	n, err := uc.bookService.DeleteAuthor(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.RecordCatalogChange("author", "delete")
	uc.logger.Info("作者已删除", zap.Uint("author_id", id), zap.Int64("deleted_books", n))
	return &DeleteAuthorResponse{AuthorID: id, DeletedBooks: n}, nil
}

// GenreUseCase 分类的查询与新增
type GenreUseCase struct {
	bookService book.Service
}

// NewGenreUseCase 创建分类用例
func NewGenreUseCase(bookService book.Service) *GenreUseCase {
	return &GenreUseCase{bookService: bookService}
}

func (uc *GenreUseCase) List(ctx context.Context) ([]GenreItem, error) {
	genres, err := uc.bookService.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]GenreItem, len(genres))
	for i, g := range genres {
		items[i] = toGenreItem(g)
	}
	return items, nil
}

func (uc *GenreUseCase) Create(ctx context.Context, name string) (*GenreItem, error) {
	g, err := uc.bookService.CreateGenre(ctx, name)
	if err != nil {
		return nil, err
	}
	metrics.RecordCatalogChange("genre", "create")

	item := toGenreItem(g)
	return &item, nil
}
