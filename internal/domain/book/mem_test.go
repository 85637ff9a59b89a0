package book

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// 内存实现，仅用于测试服务和表单逻辑

type memStore struct {
	books   map[uint]*Book
	authors map[uint]*Author
	genres  map[uint]*Genre
	nextID  uint
	failErr error
}

func newMemStore() *memStore {
	return &memStore{
		books:   map[uint]*Book{},
		authors: map[uint]*Author{},
		genres:  map[uint]*Genre{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) addAuthor(name string) *Author {
	a := &Author{ID: m.id(), Name: name}
	m.authors[a.ID] = a
	return a
}

func (m *memStore) addGenre(name string) *Genre {
	g := &Genre{ID: m.id(), Name: name}
	m.genres[g.ID] = g
	return g
}

type memBooks struct{ *memStore }

func (r memBooks) Create(_ context.Context, b *Book) error {
	b.ID = r.id()
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r memBooks) FindByID(_ context.Context, id uint) (*Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	cp := *b
	cp.Author = r.authors[b.AuthorID]
	cp.Genres = make([]Genre, 0, len(b.Genres))
	for _, g := range b.Genres {
		cp.Genres = append(cp.Genres, *r.genres[g.ID])
	}
	return &cp, nil
}

func (r memBooks) Update(_ context.Context, b *Book) error {
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r memBooks) Delete(_ context.Context, id uint) error {
	delete(r.books, id)
	return nil
}

func (r memBooks) DeleteByAuthor(_ context.Context, authorID uint) (int64, error) {
	var n int64
	for id, b := range r.books {
		if b.AuthorID == authorID {
			delete(r.books, id)
			n++
		}
	}
	return n, nil
}

func (r memBooks) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	ids := make([]int, 0, len(r.books))
	for id := range r.books {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	var out []*Book
	for _, id := range ids {
		b, _ := r.FindByID(ctx, uint(id))
		if params.AuthorID != nil && b.AuthorID != *params.AuthorID {
			continue
		}
		if params.Keyword != "" && !strings.Contains(b.Title, params.Keyword) {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r memBooks) FindInBatches(ctx context.Context, batchSize int, fn func([]*Book) error) error {
	all, _, _ := r.List(ctx, ListParams{})
	for start := 0; start < len(all); start += batchSize {
		end := start + batchSize
		if end > len(all) {
			end = len(all)
		}
		if err := fn(all[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r memBooks) UpdateDiscountedPrice(_ context.Context, id uint, price *decimal.Decimal) error {
	r.books[id].DiscountedPrice = price
	return nil
}

type memAuthors struct{ *memStore }

func (r memAuthors) Create(_ context.Context, a *Author) error {
	a.ID = r.id()
	r.authors[a.ID] = a
	return nil
}

func (r memAuthors) FindByID(_ context.Context, id uint) (*Author, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	a, ok := r.authors[id]
	if !ok {
		return nil, ErrAuthorNotFound
	}
	return a, nil
}

func (r memAuthors) List(context.Context) ([]*Author, error) {
	out := make([]*Author, 0, len(r.authors))
	for _, a := range r.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memAuthors) Delete(_ context.Context, id uint) error {
	delete(r.authors, id)
	return nil
}

type memGenres struct{ *memStore }

func (r memGenres) Create(_ context.Context, g *Genre) error {
	g.ID = r.id()
	r.genres[g.ID] = g
	return nil
}

func (r memGenres) FindByIDs(_ context.Context, ids []uint) ([]*Genre, error) {
	var out []*Genre
	for _, id := range ids {
		if g, ok := r.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r memGenres) List(context.Context) ([]*Genre, error) {
	out := make([]*Genre, 0, len(r.genres))
	for _, g := range r.genres {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type noTx struct{}

func (noTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
