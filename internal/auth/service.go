package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anoixa/image-share/database/models"
	"github.com/anoixa/image-share/database/repo/accounts"
	cryptopackage "github.com/anoixa/image-share/utils/crypto"
)

var (
	// ErrUsernameTaken 用户名已存在错误
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown username and wrong password;
	// callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service 账户服务
type Service struct {
	accountsRepo *accounts.Repository
	jwtService   *JWTService
}

// NewService 创建新的账户服务
func NewService(accountsRepo *accounts.Repository, jwtService *JWTService) *Service {
	return &Service{
		accountsRepo: accountsRepo,
		jwtService:   jwtService,
	}
}

// JWT 返回底层令牌服务
func (s *Service) JWT() *JWTService {
	return s.jwtService
}

// Register 注册新用户
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	exists, err := s.accountsRepo.UserExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashed, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: hashed,
	}
	if err := s.accountsRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// LoginResult 登录结果
type LoginResult struct {
	User              *models.User
	AccessToken       string
	AccessTokenExpiry time.Time
}

// Login 执行登录操作
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.accountsRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, expiry, err := s.jwtService.GenerateAccessToken(user.Username, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		User:              user,
		AccessToken:       token,
		AccessTokenExpiry: expiry,
	}, nil
}
