package service

import (
	"strings"

	"vehicle-registry/internal/domain"
	"vehicle-registry/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register 创建市民账号；角色固定 CITIZEN，管理员走运维通道开通。
func (s *UserService) Register(in *CreateUserInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.users.FindByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Role:         domain.RoleCitizen,
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 校验邮箱密码；不区分“用户不存在”与“密码错误”。
func (s *UserService) Login(in *LoginInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Get(id string) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile 仅允许改姓名和电话；邮箱、角色不从这里动。
func (s *UserService) UpdateProfile(id string, in *UpdateProfileInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	u.FullName = strings.TrimSpace(in.FullName)
	u.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Ban 封禁（软删）；被封禁账号登录与鉴权查询都查不到行。
func (s *UserService) Ban(id string) error {
	u, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return s.users.SoftDelete(id)
}

func (s *UserService) List(offset, limit int, q string) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(offset, limit, q)
}
