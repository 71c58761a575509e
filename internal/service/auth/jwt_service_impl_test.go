package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-that-is-long-enough-0123456789",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestJWTService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc.timeFunc = func() time.Time { return issued }
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// Past the lifetime plus the clock skew leeway.
	svc.timeFunc = func() time.Time { return issued.Add(time.Hour + 3*time.Minute) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ClockSkewLeeway(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc.timeFunc = func() time.Time { return issued }
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// Expired by less than the two minute skew allowance still validates.
	svc.timeFunc = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "another-secret-that-is-long-enough-987654",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_MalformedToken(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
