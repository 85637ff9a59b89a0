package gormrepo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookapp/internal/domain/book"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// bookRepository 图书仓储实现
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return replaceGenres(tx, model.ID, b.GenreIDs())
	})
	if err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := preloadBook(getDB(ctx, r.db)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		// Select指定列后零值和NULL也会写入
		err := tx.Model(&BookModel{ID: b.ID}).
			Select("title", "author_id", "publication_year", "price", "discounted_price").
			Updates(model).Error
		if err != nil {
			return err
		}
		return replaceGenres(tx, b.ID, b.GenreIDs())
	})
	if err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	var affected int64
	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&BookGenreModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&BookModel{}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return apperrors.Wrap(err, "删除图书失败")
	}
	if affected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *bookRepository) DeleteByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var deleted int64
	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&BookModel{}).Select("id").Where("author_id = ?", authorID)
		if err := tx.Where("book_id IN (?)", ids).Delete(&BookGenreModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("author_id = ?", authorID).Delete(&BookModel{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, apperrors.Wrap(err, "删除作者图书失败")
	}
	return deleted, nil
}

// genreNameEquals 分类名精确匹配，区分大小写
// mysql默认utf8mb4_0900_ai_ci不区分大小写和重音，需显式指定二进制排序规则；sqlite的=本身按字节比较
func genreNameEquals(dialect string) string {
	if dialect == "mysql" {
		return "genres.name = ? COLLATE utf8mb4_bin"
	}
	return "genres.name = ?"
}

func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	db := getDB(ctx, r.db)
	query := db.Model(&BookModel{})

	if params.AuthorID != nil {
		query = query.Where("books.author_id = ?", *params.AuthorID)
	}
	if params.Year != nil {
		query = query.Where("books.publication_year = ?", *params.Year)
	}
	if params.GenreName != nil {
		sub := db.Model(&BookGenreModel{}).
			Select("book_genres.book_id").
			Joins("JOIN genres ON genres.id = book_genres.genre_id").
			Where(genreNameEquals(db.Dialector.Name()), *params.GenreName)
		query = query.Where("books.id IN (?)", sub)
	}
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		authors := db.Model(&AuthorModel{}).Select("id").Where("name LIKE ?", keyword)
		query = query.Where("books.title LIKE ? OR books.author_id IN (?)", keyword, authors)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case book.SortTitle:
		query = query.Order("books.title ASC").Order("books.id ASC")
	case book.SortYearDesc:
		query = query.Order("books.publication_year DESC").Order("books.id ASC")
	case book.SortPriceAsc:
		query = query.Order("books.price ASC").Order("books.id ASC")
	case book.SortPriceDesc:
		query = query.Order("books.price DESC").Order("books.id ASC")
	default:
		query = query.Order("books.id ASC")
	}

	if params.PageSize > 0 {
		page := params.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(params.PageSize).Offset((page - 1) * params.PageSize)
	}

	var models []BookModel
	if err := preloadBook(query).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), total, nil
}

func (r *bookRepository) FindInBatches(ctx context.Context, batchSize int, fn func([]*book.Book) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}

	var models []BookModel
	result := preloadBook(getDB(ctx, r.db)).FindInBatches(&models, batchSize, func(tx *gorm.DB, batch int) error {
		return fn(toBookEntities(models))
	})
	if result.Error != nil {
		if apperrors.IsAppError(result.Error) || errors.Is(result.Error, context.Canceled) {
			return result.Error
		}
		return apperrors.Wrap(result.Error, "遍历图书失败")
	}
	return nil
}

func (r *bookRepository) UpdateDiscountedPrice(ctx context.Context, id uint, price *decimal.Decimal) error {
	err := getDB(ctx, r.db).Model(&BookModel{ID: id}).
		Update("discounted_price", toNullDecimal(price)).Error
	if err != nil {
		return apperrors.Wrap(err, "更新折后价失败")
	}
	return nil
}

func preloadBook(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.id ASC")
	})
}

// replaceGenres 整体替换图书的分类关联
func replaceGenres(tx *gorm.DB, bookID uint, genreIDs []uint) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&BookGenreModel{}).Error; err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}

	links := make([]BookGenreModel, len(genreIDs))
	for i, id := range genreIDs {
		links[i] = BookGenreModel{BookID: bookID, GenreID: id}
	}
	return tx.Create(&links).Error
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		PublicationYear: b.PublicationYear,
		Price:           toNullDecimal(b.Price),
		DiscountedPrice: toNullDecimal(b.DiscountedPrice),
	}
}

func toBookEntity(m *BookModel) *book.Book {
	b := &book.Book{
		ID:              m.ID,
		Title:           m.Title,
		AuthorID:        m.AuthorID,
		PublicationYear: m.PublicationYear,
		Genres:          make([]book.Genre, len(m.Genres)),
		Price:           fromNullDecimal(m.Price),
		DiscountedPrice: fromNullDecimal(m.DiscountedPrice),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Author.ID != 0 {
		b.Author = toAuthorEntity(&m.Author)
	}
	for i := range m.Genres {
		b.Genres[i] = *toGenreEntity(&m.Genres[i])
	}
	return b
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
