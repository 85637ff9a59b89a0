package user

import (
	"context"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookapp/internal/domain/authz"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// BiodataMaxLength 个人简介最大字符数
const BiodataMaxLength = 2000

// Service 用户领域服务
type Service interface {
	// Register 注册用户并创建空资料，新用户没有任何角色
	Register(ctx context.Context, email, password, nickname string) (*User, error)

	Login(ctx context.Context, email, password string) (*User, error)
	ValidatePassword(hashedPassword, plainPassword string) error

	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Roles 每次鉴权都从库里读取，撤销立即生效
	Roles(ctx context.Context, userID uint) ([]authz.Role, error)
	GrantRole(ctx context.Context, email string, role authz.Role) error
	RevokeRole(ctx context.Context, email string, role authz.Role) error

	// DeleteUser 级联删除角色与资料
	DeleteUser(ctx context.Context, email string) error

	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	UpdateBiodata(ctx context.Context, userID uint, biodata string) (*Profile, error)
}

type service struct {
	repo       Repository
	profiles   ProfileRepository
	tx         Transactor
	bcryptCost int
}

// NewService 创建用户服务，bcryptCost<=0时使用bcrypt.DefaultCost
func NewService(repo Repository, profiles ProfileRepository, tx Transactor, bcryptCost int) Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{repo: repo, profiles: profiles, tx: tx, bcryptCost: bcryptCost}
}

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

func (s *service) Register(ctx context.Context, email, password, nickname string) (*User, error) {
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}
	// 8-20位，必须同时包含字母和数字
	if err := validation.Validate(password,
		validation.Length(8, 20),
		validation.Match(hasLetter),
		validation.Match(hasDigit),
	); err != nil || password == "" {
		return nil, apperrors.ErrWeakPassword
	}
	if err := validation.Validate(nickname, validation.Required, validation.RuneLength(2, 50)); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), nickname)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, u); err != nil {
			return err
		}
		return s.profiles.Create(ctx, &Profile{UserID: u.ID})
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// 不区分邮箱不存在和密码错误
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}
	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

func (s *service) FindByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *service) Roles(ctx context.Context, userID uint) ([]authz.Role, error) {
	return s.repo.FindRoles(ctx, userID)
}

func (s *service) GrantRole(ctx context.Context, email string, role authz.Role) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.repo.AddRole(ctx, u.ID, role)
}

func (s *service) RevokeRole(ctx context.Context, email string, role authz.Role) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.repo.RemoveRole(ctx, u.ID, role)
}

func (s *service) DeleteUser(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, u.ID)
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

func (s *service) UpdateBiodata(ctx context.Context, userID uint, biodata string) (*Profile, error) {
	if err := validation.Validate(biodata, validation.RuneLength(0, BiodataMaxLength)); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "个人简介过长")
	}

	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Biodata = biodata
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
