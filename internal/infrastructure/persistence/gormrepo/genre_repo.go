package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookapp/internal/domain/book"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建分类仓储
func NewGenreRepository(db *gorm.DB) book.GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, g *book.Genre) error {
	model := &GenreModel{Name: g.Name}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建分类失败")
	}
	g.ID = model.ID
	g.CreatedAt = model.CreatedAt
	g.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []GenreModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toGenreEntities(models), nil
}

func (r *genreRepository) List(ctx context.Context) ([]*book.Genre, error) {
	var models []GenreModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}
	return toGenreEntities(models), nil
}

func toGenreEntity(m *GenreModel) *book.Genre {
	return &book.Genre{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func toGenreEntities(models []GenreModel) []*book.Genre {
	genres := make([]*book.Genre, len(models))
	for i := range models {
		genres[i] = toGenreEntity(&models[i])
	}
	return genres
}
