package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookapp/internal/domain/user"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建用户资料仓储
func NewProfileRepository(db *gorm.DB) user.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *user.Profile) error {
	model := &ProfileModel{UserID: p.UserID, Biodata: p.Biodata}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "用户资料已存在")
		}
		return apperrors.Wrap(err, "创建用户资料失败")
	}
	p.ID = model.ID
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*user.Profile, error) {
	var model ProfileModel
	if err := getDB(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "用户资料不存在")
		}
		return nil, apperrors.Wrap(err, "查询用户资料失败")
	}
	return &user.Profile{ID: model.ID, UserID: model.UserID, Biodata: model.Biodata, UpdatedAt: model.UpdatedAt}, nil
}

func (r *profileRepository) Update(ctx context.Context, p *user.Profile) error {
	err := getDB(ctx, r.db).Model(&ProfileModel{ID: p.ID}).
		Select("biodata").Updates(&ProfileModel{Biodata: p.Biodata}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新用户资料失败")
	}
	return nil
}
