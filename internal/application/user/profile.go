package user

import (
	"context"

	"github.com/xiebiao/bookapp/internal/domain/user"
)

// ProfileUseCase 当前用户资料的查询与修改
type ProfileUseCase struct {
	userService user.Service
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userService user.Service) *ProfileUseCase {
	return &ProfileUseCase{userService: userService}
}

// ProfileResponse 用户信息+简介
type ProfileResponse struct {
	User    UserInfo `json:"user"`
	Biodata string   `json:"biodata"`
}

func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userService.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := uc.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{User: toUserInfo(u), Biodata: p.Biodata}, nil
}

func (uc *ProfileUseCase) UpdateBiodata(ctx context.Context, userID uint, biodata string) (*ProfileResponse, error) {
	if _, err := uc.userService.UpdateBiodata(ctx, userID, biodata); err != nil {
		return nil, err
	}
	return uc.Get(ctx, userID)
}
