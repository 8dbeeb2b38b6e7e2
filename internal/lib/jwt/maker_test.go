package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
		role     string
	}{
		{name: "admin user", username: "admin_user", role: "admin"},
		{name: "regular user", username: "regular_user", role: "user"},
		{name: "user with email username", username: "user@domain.com", role: "user"},
		{name: "user with numbers in username", username: "user123", role: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userUID := uuid.New().String()
			token, err := maker.GenerateToken(tt.username, tt.role, userUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, userUID, claims.UserUID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	validToken, err := maker.GenerateToken("testuser", "user", uuid.New().String())
	require.NoError(t, err)

	otherMaker := NewJWTMaker("completely_different_secret", 15*time.Minute)
	foreignToken, err := otherMaker.GenerateToken("testuser", "user", uuid.New().String())
	require.NoError(t, err)

	expiredMaker := NewJWTMaker("test_secret_key_1234567890", -time.Minute)
	expiredToken, err := expiredMaker.GenerateToken("testuser", "user", uuid.New().String())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage token", token: "not-a-jwt-at-all"},
		{name: "empty token", token: ""},
		{name: "wrong signature", token: foreignToken},
		{name: "expired token", token: expiredToken},
		{name: "truncated token", token: validToken[:len(validToken)-10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
