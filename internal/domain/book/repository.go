package book

import (
	"context"

	"github.com/shopspring/decimal"
)

// BookRepository 图书仓储接口，由infrastructure层实现
type BookRepository interface {
	Create(ctx context.Context, book *Book) error

	// FindByID 预加载作者与分类
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 整体替换字段与分类集合
	Update(ctx context.Context, book *Book) error

	// Delete 硬删除，同时清除分类关联
	Delete(ctx context.Context, id uint) error

	// DeleteByAuthor 删除作者名下全部图书，返回删除数量
	DeleteByAuthor(ctx context.Context, authorID uint) (int64, error)

	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// FindInBatches 按ID顺序分批遍历全部图书，fn返回错误时终止
	FindInBatches(ctx context.Context, batchSize int, fn func(books []*Book) error) error

	// UpdateDiscountedPrice 只写折后价一列
	UpdateDiscountedPrice(ctx context.Context, id uint, price *decimal.Decimal) error
}

// AuthorRepository 作者仓储接口
type AuthorRepository interface {
	Create(ctx context.Context, author *Author) error
	FindByID(ctx context.Context, id uint) (*Author, error)
	List(ctx context.Context) ([]*Author, error)
	Delete(ctx context.Context, id uint) error
}

// GenreRepository 分类仓储接口
type GenreRepository interface {
	Create(ctx context.Context, genre *Genre) error
	// FindByIDs 返回存在的分类，不存在的ID直接忽略
	FindByIDs(ctx context.Context, ids []uint) ([]*Genre, error)
	List(ctx context.Context) ([]*Genre, error)
}

// Transactor 事务管理，fn内的仓储调用共享同一事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// 排序方式
const (
	SortDefault   = ""
	SortTitle     = "title"
	SortYearDesc  = "year_desc"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ListParams 列表查询参数，过滤条件为nil表示不过滤
type ListParams struct {
	AuthorID  *uint
	GenreName *string
	Year      *int
	Keyword   string // 匹配标题或作者名
	SortBy    string
	Page      int // 从1开始
	PageSize  int // 0表示不分页
}
