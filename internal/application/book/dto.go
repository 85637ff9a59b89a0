package book

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookapp/internal/domain/book"
)

// AuthorItem 作者DTO
type AuthorItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GenreItem 分类DTO
type GenreItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BookItem 图书DTO，价格为两位小数的字符串，未定价为null
type BookItem struct {
	ID              uint        `json:"id"`
	Title           string      `json:"title"`
	Author          *AuthorItem `json:"author"`
	PublicationYear int         `json:"publication_year"`
	Genres          []GenreItem `json:"genres"`
	Price           *string     `json:"price"`
	DiscountedPrice *string     `json:"discounted_price"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

const timeLayout = "2006-01-02 15:04:05"

func toBookItem(b *book.Book) BookItem {
	item := BookItem{
		ID:              b.ID,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		Genres:          make([]GenreItem, len(b.Genres)),
		Price:           formatPrice(b.Price),
		DiscountedPrice: formatPrice(b.DiscountedPrice),
		CreatedAt:       b.CreatedAt.Format(timeLayout),
		UpdatedAt:       b.UpdatedAt.Format(timeLayout),
	}
	if b.Author != nil {
		item.Author = &AuthorItem{ID: b.Author.ID, Name: b.Author.Name}
	} else {
		item.Author = &AuthorItem{ID: b.AuthorID}
	}
	for i, g := range b.Genres {
		item.Genres[i] = GenreItem{ID: g.ID, Name: g.Name}
	}
	return item
}

func formatPrice(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := book.FormatPrice(d)
	return &s
}

func toBookItems(books []*book.Book) []BookItem {
	items := make([]BookItem, len(books))
	for i, b := range books {
		items[i] = toBookItem(b)
	}
	return items
}

func toAuthorItem(a *book.Author) AuthorItem {
	return AuthorItem{ID: a.ID, Name: a.Name}
}

func toGenreItem(g *book.Genre) GenreItem {
	return GenreItem{ID: g.ID, Name: g.Name}
}
