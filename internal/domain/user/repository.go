package user

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/authz"
)

// Repository 用户仓储接口
// 查不到时返回errors.ErrUserNotFound；邮箱重复返回errors.ErrEmailDuplicate
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// Delete 同时删除角色与资料
	Delete(ctx context.Context, id uint) error

	// 角色，重复授予和撤销不存在的角色都不报错
	AddRole(ctx context.Context, userID uint, role authz.Role) error
	RemoveRole(ctx context.Context, userID uint, role authz.Role) error
	FindRoles(ctx context.Context, userID uint) ([]authz.Role, error)
}

// ProfileRepository 用户资料仓储
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// Transactor 事务管理
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
