package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (Service, *memStore) {
	store := newMemStore()
	return NewService(memBooks{store}, memAuthors{store}, memGenres{store}, noTx{}), store
}

func TestService_CreateBook(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	author := store.addAuthor("Ursula K. Le Guin")
	genre := store.addGenre("Fantasy")

	b, err := svc.CreateBook(ctx, BookForm{
		Title:           "Earthsea",
		Author:          "1",
		PublicationYear: "1968",
		Genres:          []string{"2"},
	})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	require.NotNil(t, b.Author)
	assert.Equal(t, author.Name, b.Author.Name)
	assert.Equal(t, []string{genre.Name}, b.GenreNames())
	assert.False(t, b.HasPrice())

	t.Run("校验失败不写库", func(t *testing.T) {
		before := len(store.books)
		_, err := svc.CreateBook(ctx, BookForm{Title: "x"})
		var fe FieldErrors
		assert.True(t, errors.As(err, &fe))
		assert.Len(t, store.books, before)
	})
}

func TestService_UpdateBook(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	store.addAuthor("A")
	store.addAuthor("B")
	store.addGenre("G1")
	store.addGenre("G2")

	b, err := svc.CreateBook(ctx, BookForm{Title: "Old", Author: "1", PublicationYear: "2000", Genres: []string{"3"}})
	require.NoError(t, err)

	t.Run("替换字段与分类", func(t *testing.T) {
		updated, err := svc.UpdateBook(ctx, b.ID, BookForm{
			Title: "New", Author: "2", PublicationYear: "2001", Genres: []string{"4"}, Price: "9.50",
		})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "B", updated.Author.Name)
		assert.Equal(t, []string{"G2"}, updated.GenreNames())
		assert.Equal(t, "9.50", FormatPrice(updated.Price))
	})

	t.Run("不存在的图书优先返回404", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, 999, BookForm{})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestService_DeleteBook(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	store.addAuthor("A")
	store.addGenre("G")
	b, err := svc.CreateBook(ctx, BookForm{Title: "T", Author: "1", PublicationYear: "1", Genres: []string{"2"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, b.ID))
	_, err = svc.GetBook(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	assert.ErrorIs(t, svc.DeleteBook(ctx, b.ID), ErrBookNotFound)
}

func TestService_DeleteAuthorCascades(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()
	store.addAuthor("Keep")
	store.addAuthor("Drop")
	store.addGenre("G")

	form := func(author string) BookForm {
		return BookForm{Title: "T", Author: author, PublicationYear: "2000", Genres: []string{"3"}}
	}
	_, err := svc.CreateBook(ctx, form("1"))
	require.NoError(t, err)
	_, err = svc.CreateBook(ctx, form("2"))
	require.NoError(t, err)
	_, err = svc.CreateBook(ctx, form("2"))
	require.NoError(t, err)

	n, err := svc.DeleteAuthor(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	books, total, err := svc.ListBooks(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, uint(1), books[0].AuthorID)

	_, err = svc.DeleteAuthor(ctx, 2)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestService_AuthorsAndGenres(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	a, err := svc.CreateAuthor(ctx, " Tolkien ")
	require.NoError(t, err)
	assert.Equal(t, "Tolkien", a.Name)

	_, err = svc.CreateAuthor(ctx, "")
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{MsgRequired}, fe["name"])

	_, err = svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)
	_, err = svc.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err, "分类名称允许重复")

	authors, err := svc.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	genres, err := svc.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 2)
}
