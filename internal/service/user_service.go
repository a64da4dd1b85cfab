package service

import (
	"context"
	"errors"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"
)

// UserService 管理员维护账号
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

type CreateUserReq struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

type UpdateUserReq struct {
	Role     *string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	Password *string `json:"password" binding:"omitempty,min=6,max=128"`
}

func (s *UserService) List(ctx context.Context, q string, pg util.Pagination) ([]model.User, int64, error) {
	return s.UserRepo.List(ctx, q, pg)
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, req CreateUserReq) (*model.User, error) {
	_, err := s.UserRepo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, util.ErrUserExists
	} else if !errors.Is(err, util.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         model.NormalizeRole(req.Role),
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 支持修改角色和重置密码；没有可更新字段时原样返回
func (s *UserService) Update(ctx context.Context, id uint, req UpdateUserReq) (*model.User, error) {
	fields := map[string]interface{}{}
	if req.Role != nil {
		fields["role"] = model.NormalizeRole(*req.Role)
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if len(fields) > 0 {
		if err := s.UserRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.UserRepo.Delete(ctx, id)
}

// EnsureAdmin 已存在则只提升为 ADMIN，不覆盖密码
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, bool, error) {
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err == nil {
		if user.Role != model.RoleAdmin {
			if err := s.UserRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"role": model.RoleAdmin}); err != nil {
				return nil, false, err
			}
			user.Role = model.RoleAdmin
		}
		return user, false, nil
	}
	if !errors.Is(err, util.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	user = &model.User{Username: username, PasswordHash: hash, Role: model.RoleAdmin}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
