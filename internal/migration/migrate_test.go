package migration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/damoang/caption-queue/internal/config"
	"github.com/damoang/caption-queue/internal/database"
	"github.com/damoang/caption-queue/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunAndSeedAdmin(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "test.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, Run(db))
	require.NoError(t, Run(db), "migration is re-runnable")

	created, err := SeedAdmin(context.Background(), db, config.AdminConfig{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.True(t, created)

	var user domain.User
	require.NoError(t, db.Where("username = ?", "admin").First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	created, err = SeedAdmin(context.Background(), db, config.AdminConfig{Username: "other", Password: "x"})
	require.NoError(t, err)
	assert.False(t, created, "seed only runs on an empty table")
}

func TestSeedAdmin_NotConfigured(t *testing.T) {
	created, err := SeedAdmin(context.Background(), nil, config.AdminConfig{})
	require.NoError(t, err)
	assert.False(t, created)
}
