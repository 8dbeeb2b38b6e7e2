package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, email, username, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, email, username, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, email, username, passwordHash, role)
	require.NoError(t, err)
}

// CreateSubscription создает тестовую подписку и возвращает её ID
func (f *TestDataFactory) CreateSubscription(t *testing.T, userUID, serviceName string, price int,
	renewalDate time.Time, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions
		(user_uid, service_name, price, renewal_date, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userUID, serviceName, price, renewalDate, status).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifySubscriptionExists проверяет существование подписки в БД
func (v *TestVerification) VerifySubscriptionExists(t *testing.T, subscriptionID int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM subscriptions WHERE id = $1", subscriptionID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifySubscriptionDeleted проверяет удаление подписки из БД
func (v *TestVerification) VerifySubscriptionDeleted(t *testing.T, subscriptionID int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM subscriptions WHERE id = $1", subscriptionID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

// VerifySubscriptionStatus проверяет статус подписки
func (v *TestVerification) VerifySubscriptionStatus(t *testing.T, subscriptionID int, expectedStatus string) {
	var status string
	err := v.storage.DB.QueryRow("SELECT status FROM subscriptions WHERE id = $1", subscriptionID).Scan(&status)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, status)
}

// VerifyUserDeleted проверяет удаление пользователя из БД
func (v *TestVerification) VerifyUserDeleted(t *testing.T, userUID string) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE uid = $1", userUID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS subscriptions CASCADE;
        DROP TABLE IF EXISTS users CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE subscriptions (
            id SERIAL PRIMARY KEY,
            user_uid UUID NOT NULL REFERENCES users (uid) ON DELETE CASCADE,
            service_name TEXT NOT NULL,
            price INTEGER NOT NULL CHECK (price > 0),
            renewal_date DATE NOT NULL,
            status TEXT NOT NULL DEFAULT 'active',
            cancelled_at TIMESTAMPTZ
        );

        CREATE INDEX idx_subscriptions_user_uid ON subscriptions (user_uid);
        CREATE INDEX idx_subscriptions_renewal ON subscriptions (user_uid, status, renewal_date);
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		_ = storage.DB.Close()
		_ = postgresContainer.Terminate(ctx)
	}
	return storage, cleanup
}
