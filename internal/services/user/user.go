// Package services содержит бизнес-логику управления учётными записями
// пользователей: чтение, обновление и удаление собственной записи,
// а также административный список всех пользователей.
// Наружу никогда не отдается хэш пароля.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/password"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// UpdateUser обновляет учётные данные пользователя и возвращает запись.
	UpdateUser(ctx context.Context, userUID string, user models.User) (*models.User, error)
	// RemoveUser удаляет пользователя.
	RemoveUser(ctx context.Context, userUID string) error
}

// UserService реализует бизнес-логику работы с учётными записями.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Get возвращает пользователя по UID без учётных данных.
func (s *UserService) Get(ctx context.Context, userUID string) (*models.UserInfo, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

// List возвращает всех пользователей без учётных данных.
func (s *UserService) List(ctx context.Context) ([]models.UserInfo, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, u.Info())
	}
	return result, nil
}

// Update перезаписывает email и username пользователя; если в запросе передан
// новый пароль, он хэшируется заново, иначе хэш остаётся прежним.
func (s *UserService) Update(ctx context.Context, userUID string, req models.DummyUserUpdate) (*models.UserInfo, error) {
	current, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	passwordHash := current.PasswordHash
	if req.Password != "" {
		passwordHash, err = password.GetHash(req.Password)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateUser(ctx, userUID, models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("updated user", slog.String("uid", userUID))

	info := updated.Info()
	return &info, nil
}

// Remove удаляет учётную запись пользователя.
func (s *UserService) Remove(ctx context.Context, userUID string) error {
	if err := s.repo.RemoveUser(ctx, userUID); err != nil {
		return err
	}
	s.log.Info("removed user", slog.String("uid", userUID))
	return nil
}
