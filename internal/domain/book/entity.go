package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// 字段长度与精度约束，持久化层的列定义与表单校验共用
const (
	TitleMaxLength      = 20
	AuthorNameMaxLength = 255
	GenreNameMaxLength  = 100
	PriceMaxDigits      = 10
	PriceDecimalPlaces  = 2
)

// Author 作者
type Author struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Genre 分类，名称不要求唯一
type Genre struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Book 图书（聚合根）
// Price和DiscountedPrice为nil表示未定价；DiscountedPrice只由折扣批处理或表单写入
type Book struct {
	ID              uint
	Title           string
	AuthorID        uint
	Author          *Author // 查询时预加载，写入时忽略
	PublicationYear int
	Genres          []Genre
	Price           *decimal.Decimal
	DiscountedPrice *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBook 由校验后的输入创建图书
func NewBook(in *BookInput) *Book {
	b := &Book{}
	b.apply(in)
	return b
}

// apply 整体替换可编辑字段（包括分类集合）
func (b *Book) apply(in *BookInput) {
	b.Title = in.Title
	b.AuthorID = in.AuthorID
	b.Author = nil
	b.PublicationYear = in.PublicationYear
	b.Price = in.Price
	b.DiscountedPrice = in.DiscountedPrice

	b.Genres = make([]Genre, len(in.GenreIDs))
	for i, id := range in.GenreIDs {
		b.Genres[i] = Genre{ID: id}
	}
	b.UpdatedAt = time.Now()
}

// HasPrice 是否已定价
func (b *Book) HasPrice() bool {
	return b.Price != nil
}

// DiscountedBy 按百分比计算折后价，未定价返回ErrMissingPrice
func (b *Book) DiscountedBy(percentage int) (decimal.Decimal, error) {
	if !b.HasPrice() {
		return decimal.Decimal{}, ErrMissingPrice
	}
	return ApplyDiscount(*b.Price, percentage)
}

// GenreIDs 分类ID列表
func (b *Book) GenreIDs() []uint {
	ids := make([]uint, len(b.Genres))
	for i, g := range b.Genres {
		ids[i] = g.ID
	}
	return ids
}

// GenreNames 分类名称列表
func (b *Book) GenreNames() []string {
	names := make([]string, len(b.Genres))
	for i, g := range b.Genres {
		names[i] = g.Name
	}
	return names
}
