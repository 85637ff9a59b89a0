package user

import (
	"time"

	"github.com/xiebiao/bookapp/internal/domain/authz"
)

// User 用户实体（聚合根）
// 密码保存bcrypt哈希；Roles由仓储在查询时加载
type User struct {
	ID        uint
	Email     string
	Password  string
	Nickname  string
	Roles     []authz.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户，hashedPassword必须已加密
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasRole 是否拥有指定角色
func (u *User) HasRole(role authz.Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal 转换为鉴权主体
func (u *User) Principal() *authz.Principal {
	return &authz.Principal{UserID: u.ID, Roles: u.Roles}
}

// Profile 用户资料，与用户一对一
type Profile struct {
	ID        uint
	UserID    uint
	Biodata   string
	UpdatedAt time.Time
}
