package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("APP_ENV", "local")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 50, cfg.Caption.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Caption.Temperature, 0.0001)
	assert.Equal(t, 30*time.Second, cfg.Caption.Timeout)
	assert.Equal(t, "electrical services", cfg.Caption.Niche)
	assert.NotEmpty(t, cfg.Session.Secret, "local env gets a dev secret")
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	yml := `
server:
  env: production
  port: 8080
session:
  secret: from-file-secret
caption:
  model: gpt-4o
  timeout: 10s
smtp:
  host: smtp.example.com
  notify_email: ops@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("CAPTION_TEMPERATURE", "0.2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, 9090, cfg.Server.Port, "env wins over file")
	assert.Equal(t, "gpt-4o", cfg.Caption.Model)
	assert.Equal(t, 10*time.Second, cfg.Caption.Timeout)
	assert.InDelta(t, 0.2, cfg.Caption.Temperature, 0.0001)
	assert.True(t, cfg.SMTP.Secure)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("CAPTION_TIMEOUT", "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, "CAPTION_TIMEOUT")
}

func TestLoad_SMTPHostNeedsRecipient(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("NOTIFY_EMAIL", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "NOTIFY_EMAIL")
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load("")
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: "sqlite", Path: "./data.sqlite"}
	assert.True(t, strings.HasPrefix(sqlite.GetDSN(), "./data.sqlite?"))

	mysql := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "app", Password: "pw", DBName: "captions"}
	dsn := mysql.GetDSN()
	assert.Contains(t, dsn, "app:pw@tcp(db:3306)/captions")
	assert.Contains(t, dsn, "parseTime=true")
}
