package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей системы.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser обновляет учётные данные пользователя по его UID и возвращает обновлённую запись.
func (s *Storage) UpdateUser(ctx context.Context, userUID string, user models.User) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email = $1, username = $2, password_hash = $3
			  WHERE uid = $4
			  RETURNING uid, email, username, password_hash, role, created_at`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, user.Email, user.Username, user.PasswordHash, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// RemoveUser удаляет пользователя по его UID.
func (s *Storage) RemoveUser(ctx context.Context, userUID string) error {
	const op = "storage.RemoveUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}
