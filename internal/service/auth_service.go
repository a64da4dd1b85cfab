package service

import (
	"context"
	"errors"
	"fmt"

	"skill_portal_backend/internal/model"
	"skill_portal_backend/internal/repository"
	"skill_portal_backend/internal/util"
	"skill_portal_backend/pkg/monitoring"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost 与原有账号的哈希强度保持一致
const BcryptCost = 12

type AuthService struct {
	UserRepo *repository.UserRepository
	Tokens   *util.TokenCodec
}

func NewAuthService(userRepo *repository.UserRepository, tokens *util.TokenCodec) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Tokens:   tokens,
	}
}

// TokenPair 一次签发的访问令牌与刷新令牌
type TokenPair struct {
	Access  string
	Refresh string
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Register 创建 USER 角色账号
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	_, err := s.UserRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil, util.ErrUserExists
	} else if !errors.Is(err, util.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	monitoring.ObserveAuth("register", nil)
	return user, nil
}

// Login 用户不存在与密码错误返回同一错误
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if errors.Is(err, util.ErrUserNotFound) {
		monitoring.ObserveAuth("login", util.ErrInvalidCredentials)
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		monitoring.ObserveAuth("login", util.ErrInvalidCredentials)
		return nil, util.ErrInvalidCredentials
	}

	monitoring.ObserveAuth("login", nil)
	return user, nil
}

// Refresh 校验刷新令牌并重新读取用户，角色或用户名变更会体现在新令牌中
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.User, error) {
	p, err := s.Tokens.Verify(refreshToken, util.RefreshToken)
	if err != nil {
		monitoring.ObserveAuth("refresh", err)
		return nil, err
	}

	user, err := s.UserRepo.FindByID(ctx, p.Sub)
	if err != nil {
		monitoring.ObserveAuth("refresh", err)
		return nil, err
	}

	monitoring.ObserveAuth("refresh", nil)
	return user, nil
}

// IssuePair 为用户签发一对新令牌
func (s *AuthService) IssuePair(user *model.User) (TokenPair, error) {
	p := util.PrincipalOf(user)
	access, err := s.Tokens.IssueAccess(p)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Tokens.IssueRefresh(p)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
