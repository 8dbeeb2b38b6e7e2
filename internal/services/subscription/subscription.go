// Package services содержит бизнес-логику для управления подписками:
// правила жизненного цикла (отмена не более одного раза), расчёт окна
// предстоящих продлений, кеширование и постановку напоминаний в очередь.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/rabbitmq"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// renewalWindowDays — горизонт окна предстоящих продлений в днях.
const renewalWindowDays = 7

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
// Все операции над конкретной подпиской принимают uid владельца:
// чужая запись неотличима от отсутствующей.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscription возвращает подписку по ID, если она принадлежит userUID.
	ReadSubscription(ctx context.Context, id int, userUID string) (*models.Subscription, error)
	// UpdateSubscription обновляет сервис, цену и дату продления подписки.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id int, userUID string) (*models.Subscription, error)
	// RemoveSubscription удаляет подписку.
	RemoveSubscription(ctx context.Context, id int, userUID string) error
	// ListSubscriptions возвращает все подписки пользователя.
	ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
	// ListUpcomingRenewals возвращает активные подписки с продлением в границах [from, to].
	ListUpcomingRenewals(ctx context.Context, userUID string, from, to time.Time) ([]*models.Subscription, error)
	// CancelSubscription переводит подписку в статус cancelled одним условным обновлением.
	CancelSubscription(ctx context.Context, id int, userUID string, cancelledAt time.Time) (*models.Subscription, error)
	// GetUser возвращает пользователя по UID (нужен адрес для напоминания).
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// ReminderPublisher публикует сообщения о напоминаниях в очередь.
type ReminderPublisher interface {
	Publish(exchange, routingKey string, message any) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo      SubscriptionRepository
	cache     Cache
	publisher ReminderPublisher
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, publisher ReminderPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Create создает новую подписку для пользователя и ставит напоминание в очередь.
// Владелец всегда берётся из userUID вызывающего, статус всегда active.
// Публикация напоминания — наилучшей попыткой: её ошибка не откатывает создание,
// в этом случае возвращается пустой идентификатор напоминания.
func (s *SubscriptionService) Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.Subscription, string, error) {
	renewalDate, err := time.Parse("02-01-2006", req.RenewalDate)
	if err != nil {
		return nil, "", fmt.Errorf("invalid renewal date: %w", err)
	}

	sub := models.Subscription{
		UserUID:     userUID,
		ServiceName: req.ServiceName,
		Price:       req.Price,
		RenewalDate: renewalDate,
		Status:      models.StatusActive,
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, "", err
	}
	sub.ID = id
	s.log.Info("created new subscription", slog.Int("id", id))

	reminderID := s.scheduleReminder(ctx, &sub)

	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(ctx, cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}

	return &sub, reminderID, nil
}

// scheduleReminder публикует сообщение о напоминании и возвращает его идентификатор.
// При любой ошибке возвращает пустую строку: компенсации нет, доставка at-most-once.
func (s *SubscriptionService) scheduleReminder(ctx context.Context, sub *models.Subscription) string {
	user, err := s.repo.GetUser(ctx, sub.UserUID)
	if err != nil {
		s.log.Warn("failed to resolve user for reminder", sl.Err(err))
		return ""
	}

	reminder := models.Reminder{
		ReminderID:     uuid.New().String(),
		SubscriptionID: sub.ID,
		ServiceName:    sub.ServiceName,
		RenewalDate:    sub.RenewalDate,
		Email:          user.Email,
		Username:       user.Username,
	}
	if err := s.publisher.Publish(rabbitmq.ExchangeReminders, rabbitmq.RoutingKeyUpcoming, reminder); err != nil {
		s.log.Warn("failed to schedule reminder", slog.Int("subscription_id", sub.ID), sl.Err(err))
		return ""
	}
	s.log.Info("reminder scheduled", slog.String("reminder_id", reminder.ReminderID))
	return reminder.ReminderID
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
// Закешированная запись другого владельца не раскрывается.
func (s *SubscriptionService) Read(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	var cached models.Subscription
	cacheKey := fmt.Sprintf("subscription:%d", id)
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && err == nil {
		if cached.UserUID != userUID {
			return nil, fmt.Errorf("subscription %d: %w", id, repository.ErrSubscriptionNotFound)
		}
		return &cached, nil
	}

	result, err := s.repo.ReadSubscription(ctx, id, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Update обновляет изменяемые поля подписки и обновляет кеш.
func (s *SubscriptionService) Update(ctx context.Context, req models.DummySubscription, id int, userUID string) (*models.Subscription, error) {
	renewalDate, err := time.Parse("02-01-2006", req.RenewalDate)
	if err != nil {
		return nil, fmt.Errorf("invalid renewal date: %w", err)
	}

	sub := models.Subscription{
		ServiceName: req.ServiceName,
		Price:       req.Price,
		RenewalDate: renewalDate,
	}
	updated, err := s.repo.UpdateSubscription(ctx, sub, id, userUID)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated subscription in storage", slog.Int("id", id))

	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(ctx, cacheKey, updated, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
	return updated, nil
}

// Remove удаляет подписку и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, id int, userUID string) error {
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	return s.repo.RemoveSubscription(ctx, id, userUID)
}

// Cancel применяет переход подписки в статус cancelled и обновляет кеш.
// Повторная отмена возвращает ошибку хранилища ErrAlreadyCancelled,
// поля записи при этом не меняются.
func (s *SubscriptionService) Cancel(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	cancelled, err := s.repo.CancelSubscription(ctx, id, userUID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription cancelled", slog.Int("id", id))

	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(ctx, cacheKey, cancelled, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
	return cancelled, nil
}

// List возвращает все подписки пользователя.
func (s *SubscriptionService) List(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userUID)
}

// UpcomingRenewals возвращает активные подписки пользователя, продлевающиеся
// в окне [начало текущего дня, конец дня через 7 суток], по возрастанию даты.
// Границы окна вычисляются один раз на вызов.
func (s *SubscriptionService) UpcomingRenewals(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, renewalWindowDays+1).Add(-time.Nanosecond)

	return s.repo.ListUpcomingRenewals(ctx, userUID, from, to)
}
