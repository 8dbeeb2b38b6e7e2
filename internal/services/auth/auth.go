// Package services содержит логику бизнес-уровня для регистрации,
// входа и проверки JWT токенов.
package services

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/password"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен корректен.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
