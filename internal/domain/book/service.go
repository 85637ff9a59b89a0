package book

import (
	"context"
)

// Service 图书目录领域服务
// 表单校验、存在性检查与级联删除都在这里完成，权限判定由接口层负责
type Service interface {
	CreateBook(ctx context.Context, form BookForm) (*Book, error)

	// UpdateBook 先确认图书存在再校验表单
	UpdateBook(ctx context.Context, id uint, form BookForm) (*Book, error)

	DeleteBook(ctx context.Context, id uint) error
	GetBook(ctx context.Context, id uint) (*Book, error)
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	CreateAuthor(ctx context.Context, name string) (*Author, error)

	// DeleteAuthor 级联删除作者名下的图书，返回删除的图书数量
	DeleteAuthor(ctx context.Context, id uint) (int64, error)

	ListAuthors(ctx context.Context) ([]*Author, error)

	CreateGenre(ctx context.Context, name string) (*Genre, error)
	ListGenres(ctx context.Context) ([]*Genre, error)
}

type service struct {
	books   BookRepository
	authors AuthorRepository
	genres  GenreRepository
	tx      Transactor
}

// NewService 创建图书目录服务
func NewService(books BookRepository, authors AuthorRepository, genres GenreRepository, tx Transactor) Service {
	return &service{books: books, authors: authors, genres: genres, tx: tx}
}

func (s *service) CreateBook(ctx context.Context, form BookForm) (*Book, error) {
	in, err := form.Validate(ctx, s.authors, s.genres)
	if err != nil {
		return nil, err
	}

	b := NewBook(in)
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	// 重新读取以带出作者和分类名称
	return s.books.FindByID(ctx, b.ID)
}

func (s *service) UpdateBook(ctx context.Context, id uint, form BookForm) (*Book, error) {
	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in, err := form.Validate(ctx, s.authors, s.genres)
	if err != nil {
		return nil, err
	}

	b.apply(in)
	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return s.books.FindByID(ctx, id)
}

func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.books.FindByID(ctx, id); err != nil {
		return err
	}
	return s.books.Delete(ctx, id)
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 0 {
		params.PageSize = 0
	}
	return s.books.List(ctx, params)
}

func (s *service) CreateAuthor(ctx context.Context, name string) (*Author, error) {
	name, err := ValidateName(name, AuthorNameMaxLength)
	if err != nil {
		return nil, err
	}

	a := &Author{Name: name}
	if err := s.authors.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) DeleteAuthor(ctx context.Context, id uint) (int64, error) {
	var deleted int64
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.authors.FindByID(ctx, id); err != nil {
			return err
		}

		n, err := s.books.DeleteByAuthor(ctx, id)
		if err != nil {
			return err
		}
		deleted = n

		return s.authors.Delete(ctx, id)
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (s *service) ListAuthors(ctx context.Context) ([]*Author, error) {
	return s.authors.List(ctx)
}

func (s *service) CreateGenre(ctx context.Context, name string) (*Genre, error) {
	name, err := ValidateName(name, GenreNameMaxLength)
	if err != nil {
		return nil, err
	}

	g := &Genre{Name: name}
	if err := s.genres.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) ListGenres(ctx context.Context) ([]*Genre, error) {
	return s.genres.List(ctx)
}
