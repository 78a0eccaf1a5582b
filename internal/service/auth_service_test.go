package service

import (
	"context"
	"testing"
	"time"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/config"
	"github.com/damoang/caption-queue/internal/migration"
	"github.com/damoang/caption-queue/internal/repository"
	"github.com/damoang/caption-queue/internal/session"
	"github.com/damoang/caption-queue/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthService(t *testing.T) AuthService {
	t.Helper()
	db := setupTestDB(t)
	_, err := migration.SeedAdmin(context.Background(), db, config.AdminConfig{Username: "admin", Password: "admin-pass"})
	require.NoError(t, err)

	return NewAuthService(
		repository.NewUserRepository(db),
		session.NewMemoryStore(),
		jwt.NewManager("test-secret-key", time.Hour),
	)
}

func TestLogin_Success(t *testing.T) {
	svc := setupAuthService(t)

	result, err := svc.Login(context.Background(), "admin", "admin-pass")

	require.NoError(t, err)
	assert.Equal(t, "admin", result.Username)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := setupAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "ghost", "admin-pass"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		})
	}
}

func TestAuthenticate_AndLogout(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "admin", "admin-pass")
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", principal.Username)
	assert.NotEmpty(t, principal.SessionID)

	require.NoError(t, svc.Logout(ctx, result.Token))

	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, common.ErrUnauthorized, "revoked session is rejected before expiry")
}

func TestAuthenticate_BadToken(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	assert.NoError(t, svc.Logout(context.Background(), "not-a-token"))
}
