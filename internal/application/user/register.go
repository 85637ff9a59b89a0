package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/user"
)

// RegisterUseCase 用户注册，新用户没有角色，需要管理员通过bookctl授权
type RegisterUseCase struct {
	userService user.Service
	logger      *zap.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, logger *zap.Logger) *RegisterUseCase {
	return &RegisterUseCase{userService: userService, logger: logger}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("用户注册成功", zap.Uint("user_id", u.ID))
	info := toUserInfo(u)
	return &info, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// UserInfo 用户信息，不含密码
type UserInfo struct {
	ID       uint     `json:"id"`
	Email    string   `json:"email"`
	Nickname string   `json:"nickname"`
	Roles    []string `json:"roles"`
}

func toUserInfo(u *user.User) UserInfo {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return UserInfo{ID: u.ID, Email: u.Email, Nickname: u.Nickname, Roles: roles}
}
