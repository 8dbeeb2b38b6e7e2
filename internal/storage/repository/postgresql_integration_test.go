package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

func TestStorage_CreateAndReadSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "testuser", "hashedpassword", "user")

	renewalDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	id, err := storage.CreateSubscription(context.Background(), models.Subscription{
		UserUID:     userUID,
		ServiceName: "Netflix",
		Price:       500,
		RenewalDate: renewalDate,
		Status:      models.StatusActive,
	})
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifySubscriptionExists(t, id)

	got, err := storage.ReadSubscription(context.Background(), id, userUID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.ServiceName)
	assert.Equal(t, 500, got.Price)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Nil(t, got.CancelledAt)
}

func TestStorage_ReadSubscription_ForeignOwner(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := uuid.New().String()
	strangerUID := uuid.New().String()
	factory.CreateUser(t, ownerUID, "owner@example.com", "owner", "hashedpassword", "user")
	factory.CreateUser(t, strangerUID, "stranger@example.com", "stranger", "hashedpassword", "user")

	renewalDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	id := factory.CreateSubscription(t, ownerUID, "Netflix", 500, renewalDate, models.StatusActive)

	// Чужая подписка неотличима от отсутствующей.
	_, err := storage.ReadSubscription(context.Background(), id, strangerUID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)

	_, err = storage.ReadSubscription(context.Background(), 9999, ownerUID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestStorage_UpdateSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "testuser", "hashedpassword", "user")

	renewalDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	id := factory.CreateSubscription(t, userUID, "Netflix", 500, renewalDate, models.StatusActive)

	newDate := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
	updated, err := storage.UpdateSubscription(context.Background(), models.Subscription{
		ServiceName: "Netflix Premium",
		Price:       800,
		RenewalDate: newDate,
	}, id, userUID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix Premium", updated.ServiceName)
	assert.Equal(t, 800, updated.Price)
	// Владелец и статус обновлением не затрагиваются.
	assert.Equal(t, userUID, updated.UserUID)
	assert.Equal(t, models.StatusActive, updated.Status)

	_, err = storage.UpdateSubscription(context.Background(), models.Subscription{
		ServiceName: "Spotify",
		Price:       300,
		RenewalDate: newDate,
	}, 9999, userUID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestStorage_RemoveSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "testuser", "hashedpassword", "user")

	renewalDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	id := factory.CreateSubscription(t, userUID, "Netflix", 500, renewalDate, models.StatusActive)

	err := storage.RemoveSubscription(context.Background(), id, userUID)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifySubscriptionDeleted(t, id)

	err = storage.RemoveSubscription(context.Background(), id, userUID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestStorage_CancelSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	strangerUID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "testuser", "hashedpassword", "user")
	factory.CreateUser(t, strangerUID, "stranger@example.com", "stranger", "hashedpassword", "user")

	renewalDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	id := factory.CreateSubscription(t, userUID, "Netflix", 500, renewalDate, models.StatusActive)

	cancelledAt := time.Now().UTC()
	cancelled, err := storage.CancelSubscription(context.Background(), id, userUID, cancelledAt)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.True(t, cancelled.IsCancelled())
	require.NotNil(t, cancelled.CancelledAt)

	verification := NewTestVerification(storage)
	verification.VerifySubscriptionStatus(t, id, models.StatusCancelled)

	// Повторная отмена не проходит и не меняет запись.
	_, err = storage.CancelSubscription(context.Background(), id, userUID, time.Now().UTC())
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	after, err := storage.ReadSubscription(context.Background(), id, userUID)
	require.NoError(t, err)
	require.NotNil(t, after.CancelledAt)
	assert.WithinDuration(t, cancelledAt, *after.CancelledAt, time.Second)

	// Чужая или несуществующая подписка — not found, без раскрытия статуса.
	_, err = storage.CancelSubscription(context.Background(), id, strangerUID, time.Now().UTC())
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	_, err = storage.CancelSubscription(context.Background(), 9999, userUID, time.Now().UTC())
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestStorage_ListSubscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	otherUID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "testuser", "hashedpassword", "user")
	factory.CreateUser(t, otherUID, "other@example.com", "otheruser", "hashedpassword", "user")

	renewalDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	factory.CreateSubscription(t, userUID, "Netflix", 500, renewalDate, models.StatusActive)
	factory.CreateSubscription(t, userUID, "Spotify", 300, renewalDate, models.StatusCancelled)
	factory.CreateSubscription(t, otherUID, "Disney+", 800, renewalDate, models.StatusActive)

	got, err := storage.ListSubscriptions(context.Background(), userUID)
	require.NoError(t, err)
	// Список содержит и отменённые подписки, но только свои.
	assert.Len(t, got, 2)

	empty, err := storage.ListSubscriptions(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStorage_ListUpcomingRenewals(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "testuser", "hashedpassword", "user")

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	inWindowLate := factory.CreateSubscription(t, userUID, "Spotify", 300, today.AddDate(0, 0, 6), models.StatusActive)
	inWindowEarly := factory.CreateSubscription(t, userUID, "Netflix", 500, today.AddDate(0, 0, 2), models.StatusActive)
	factory.CreateSubscription(t, userUID, "Disney+", 800, today.AddDate(0, 0, 30), models.StatusActive)
	factory.CreateSubscription(t, userUID, "HBO", 400, today.AddDate(0, 0, 3), models.StatusCancelled)

	from := today
	to := today.AddDate(0, 0, 8).Add(-time.Nanosecond)
	got, err := storage.ListUpcomingRenewals(context.Background(), userUID, from, to)
	require.NoError(t, err)

	// Отменённые и далёкие подписки не попадают; порядок по дате продления.
	require.Len(t, got, 2)
	assert.Equal(t, inWindowEarly, got[0].ID)
	assert.Equal(t, inWindowLate, got[1].ID)
}

func TestStorage_UserLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.RegisterUser(context.Background(), models.User{
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	byName, err := storage.GetUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, uid, byName.UID)

	byUID, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", byUID.Email)
	assert.Equal(t, models.RoleUser, byUID.Role)

	updated, err := storage.UpdateUser(context.Background(), uid, models.User{
		Email:        "new@example.com",
		Username:     "newname",
		PasswordHash: "newhash",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "newname", updated.Username)

	users, err := storage.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = storage.GetUser(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = storage.RemoveUser(context.Background(), uid)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifyUserDeleted(t, uid)

	err = storage.RemoveUser(context.Background(), uid)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_RemoveUserCascadesSubscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "testuser", "hashedpassword", "user")

	renewalDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	id := factory.CreateSubscription(t, userUID, "Netflix", 500, renewalDate, models.StatusActive)

	err := storage.RemoveUser(context.Background(), userUID)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifySubscriptionDeleted(t, id)
}
