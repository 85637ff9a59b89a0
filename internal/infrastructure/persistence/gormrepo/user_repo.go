package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookapp/internal/domain/authz"
	"github.com/xiebiao/bookapp/internal/domain/user"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 邮箱唯一性由UNIQUE索引保证
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:    u.Email,
		Password: u.Password,
		Nickname: u.Nickname,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findOne(ctx, getDB(ctx, r.db).Where("id = ?", id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, getDB(ctx, r.db).Where("email = ?", email))
}

func (r *userRepository) findOne(ctx context.Context, query *gorm.DB) (*user.User, error) {
	var model UserModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	u := toUserEntity(&model)
	roles, err := r.FindRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	err := getDB(ctx, r.db).Model(&UserModel{ID: u.ID}).
		Select("email", "password", "nickname").
		Updates(&UserModel{Email: u.Email, Password: u.Password, Nickname: u.Nickname}).Error
	if err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "更新用户失败")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	var affected int64
	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&UserRoleModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&ProfileModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&UserModel{}, id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return apperrors.Wrap(err, "删除用户失败")
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AddRole(ctx context.Context, userID uint, role authz.Role) error {
	err := getDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&UserRoleModel{UserID: userID, Role: string(role)}).Error
	if err != nil {
		return apperrors.Wrap(err, "授予角色失败")
	}
	return nil
}

func (r *userRepository) RemoveRole(ctx context.Context, userID uint, role authz.Role) error {
	err := getDB(ctx, r.db).Where("user_id = ? AND role = ?", userID, string(role)).
		Delete(&UserRoleModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "撤销角色失败")
	}
	return nil
}

// FindRoles 忽略库中无法识别的角色
func (r *userRepository) FindRoles(ctx context.Context, userID uint) ([]authz.Role, error) {
	var names []string
	err := getDB(ctx, r.db).Model(&UserRoleModel{}).
		Where("user_id = ?", userID).Order("role ASC").Pluck("role", &names).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询用户角色失败")
	}

	roles := make([]authz.Role, 0, len(names))
	for _, name := range names {
		if role, err := authz.ParseRole(name); err == nil {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:        m.ID,
		Email:     m.Email,
		Password:  m.Password,
		Nickname:  m.Nickname,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
