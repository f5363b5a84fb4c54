package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"automl_backend/config"
	"automl_backend/dao"
	"automl_backend/entity"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrJWTSecretMissing   = errors.New("jwt secret is not configured")
)

type UserService struct {
	userStore dao.UserStore
}

func NewUserService() *UserService {
	return &UserService{
		userStore: dao.NewUserStore(),
	}
}

// Register 注册新用户，用户名冲突返回 dao.ErrAlreadyExists。
func (s *UserService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	logger := serviceLogger().With("service", "UserService", "method", "Register")

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login 校验凭据并签发 JWT。用户不存在和密码错误统一返回 ErrInvalidCredentials。
func (s *UserService) Login(ctx context.Context, username, password string) (string, *entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.userStore.FindByUsername(ctx, username)
	if errors.Is(err, dao.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := SignToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SignToken 为用户签发 HS256 JWT。
func SignToken(user *entity.User) (string, error) {
	if user == nil {
		return "", dao.ErrNilEntity
	}

	secret, ttl, err := jwtSettings()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

func jwtSettings() (secret string, ttl time.Duration, err error) {
	if config.AppConfig == nil || strings.TrimSpace(config.AppConfig.Auth.JWTSecret) == "" {
		return "", 0, ErrJWTSecretMissing
	}
	ttlHours := config.AppConfig.Auth.TokenTTLHour
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return config.AppConfig.Auth.JWTSecret, time.Duration(ttlHours) * time.Hour, nil
}
