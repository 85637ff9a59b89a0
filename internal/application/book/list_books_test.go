package book

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/book"
)

// stubService 只实现用到的方法，其余调用会panic
type stubService struct {
	book.Service
	books      []*book.Book
	gotParams  book.ListParams
	deletedFor uint
}

func (s *stubService) ListBooks(_ context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	s.gotParams = params
	return s.books, int64(len(s.books)), nil
}

func (s *stubService) GetBook(_ context.Context, id uint) (*book.Book, error) {
	for _, b := range s.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, book.ErrBookNotFound
}

func (s *stubService) DeleteAuthor(_ context.Context, id uint) (int64, error) {
	s.deletedFor = id
	return 3, nil
}

func sampleBook() *book.Book {
	price := decimal.RequireFromString("19.9")
	return &book.Book{
		ID:              1,
		Title:           "Dune",
		AuthorID:        2,
		Author:          &book.Author{ID: 2, Name: "Frank Herbert"},
		PublicationYear: 1965,
		Genres:          []book.Genre{{ID: 3, Name: "Science Fiction"}},
		Price:           &price,
		CreatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestListBooksUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("参数归一化", func(t *testing.T) {
		svc := &stubService{}
		uc := NewListBooksUseCase(svc)

		resp, err := uc.Execute(ctx, ListBooksRequest{Page: 0, PageSize: 500, SortBy: "random"})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, MaxPageSize, resp.PageSize)
		assert.Equal(t, book.SortDefault, svc.gotParams.SortBy)
		assert.Empty(t, resp.List)
		assert.NotNil(t, resp.List)
	})

	t.Run("过滤条件透传", func(t *testing.T) {
		svc := &stubService{books: []*book.Book{sampleBook()}}
		uc := NewListBooksUseCase(svc)
		genre := "Science Fiction"

		resp, err := uc.Execute(ctx, ListBooksRequest{GenreName: &genre, SortBy: book.SortPriceDesc})
		require.NoError(t, err)
		require.NotNil(t, svc.gotParams.GenreName)
		assert.Equal(t, genre, *svc.gotParams.GenreName)
		assert.Equal(t, book.SortPriceDesc, svc.gotParams.SortBy)
		assert.Equal(t, 0, resp.PageSize)
		assert.Equal(t, int64(1), resp.Total)

		item := resp.List[0]
		assert.Equal(t, "Frank Herbert", item.Author.Name)
		assert.Equal(t, []GenreItem{{ID: 3, Name: "Science Fiction"}}, item.Genres)
		require.NotNil(t, item.Price)
		assert.Equal(t, "19.90", *item.Price)
		assert.Nil(t, item.DiscountedPrice)
		assert.Equal(t, "2024-01-02 03:04:05", item.CreatedAt)
	})
}

func TestGetBookUseCase(t *testing.T) {
	uc := NewGetBookUseCase(&stubService{books: []*book.Book{sampleBook()}})

	item, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", item.Title)

	_, err = uc.Execute(context.Background(), 9)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestAuthorUseCase_Delete(t *testing.T) {
	svc := &stubService{}
	uc := NewAuthorUseCase(svc, zap.NewNop())

	resp, err := uc.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), svc.deletedFor)
	assert.Equal(t, &DeleteAuthorResponse{AuthorID: 2, DeletedBooks: 3}, resp)
}
