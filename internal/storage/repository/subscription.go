package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, service_name, price, renewal_date, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.ServiceName, sub.Price, sub.RenewalDate, sub.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает подписку по ID, только если она принадлежит userUID.
func (s *Storage) ReadSubscription(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, service_name, price, renewal_date, status, cancelled_at
			  FROM subscriptions
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	var result models.Subscription
	var cancelledAt sql.NullTime
	if err := row.Scan(&result.ID, &result.UserUID, &result.ServiceName, &result.Price,
		&result.RenewalDate, &result.Status, &cancelledAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cancelledAt.Valid {
		result.CancelledAt = &cancelledAt.Time
	}
	return &result, nil
}

// UpdateSubscription обновляет изменяемые поля подписки (сервис, цену, дату продления)
// по её ID, только если она принадлежит userUID. Владелец и статус не затрагиваются.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id int, userUID string) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET service_name = $1, price = $2, renewal_date = $3
			  WHERE id = $4 AND user_uid = $5
			  RETURNING id, user_uid, service_name, price, renewal_date, status, cancelled_at`
	row := s.DB.QueryRowContext(ctx, query,
		sub.ServiceName, sub.Price, sub.RenewalDate, id, userUID)

	var result models.Subscription
	var cancelledAt sql.NullTime
	if err := row.Scan(&result.ID, &result.UserUID, &result.ServiceName, &result.Price,
		&result.RenewalDate, &result.Status, &cancelledAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cancelledAt.Valid {
		result.CancelledAt = &cancelledAt.Time
	}
	return &result, nil
}

// RemoveSubscription удаляет подписку по ID, только если она принадлежит userUID.
func (s *Storage) RemoveSubscription(ctx context.Context, id int, userUID string) error {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
	}
	return nil
}

// ListSubscriptions возвращает все подписки пользователя.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, service_name, price, renewal_date, status, cancelled_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		var cancelledAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ServiceName, &item.Price,
			&item.RenewalDate, &item.Status, &cancelledAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cancelledAt.Valid {
			item.CancelledAt = &cancelledAt.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUpcomingRenewals возвращает активные подписки пользователя с датой продления
// в границах [from, to] включительно, отсортированные по дате продления по возрастанию.
func (s *Storage) ListUpcomingRenewals(ctx context.Context, userUID string, from, to time.Time) ([]*models.Subscription, error) {
	const op = "storage.ListUpcomingRenewals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, service_name, price, renewal_date, status, cancelled_at
			  FROM subscriptions
			  WHERE user_uid = $1
			    AND status = $2
			    AND renewal_date >= $3
			    AND renewal_date <= $4
			  ORDER BY renewal_date`
	rows, err := s.DB.QueryContext(ctx, query, userUID, models.StatusActive, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		var cancelledAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ServiceName, &item.Price,
			&item.RenewalDate, &item.Status, &cancelledAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cancelledAt.Valid {
			item.CancelledAt = &cancelledAt.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CancelSubscription переводит подписку в статус cancelled одним условным UPDATE:
// при конкурентных отменах ровно одна проходит, остальные получают ErrAlreadyCancelled.
// Момент отмены фиксируется в cancelled_at и больше не меняется.
func (s *Storage) CancelSubscription(ctx context.Context, id int, userUID string, cancelledAt time.Time) (*models.Subscription, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, cancelled_at = $2
			  WHERE id = $3 AND user_uid = $4 AND status <> $1
			  RETURNING id, user_uid, service_name, price, renewal_date, status, cancelled_at`
	row := s.DB.QueryRowContext(ctx, query, models.StatusCancelled, cancelledAt, id, userUID)

	var result models.Subscription
	var cancelled sql.NullTime
	err := row.Scan(&result.ID, &result.UserUID, &result.ServiceName, &result.Price,
		&result.RenewalDate, &result.Status, &cancelled)
	if err == nil {
		if cancelled.Valid {
			result.CancelledAt = &cancelled.Time
		}
		return &result, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// UPDATE никого не задел: либо подписка уже отменена, либо её нет (или она чужая).
	var status string
	checkQuery := `SELECT status FROM subscriptions WHERE id = $1 AND user_uid = $2`
	if err := s.DB.QueryRowContext(ctx, checkQuery, id, userUID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if status == models.StatusCancelled {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyCancelled)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
}
