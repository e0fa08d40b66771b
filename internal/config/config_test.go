package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "DATABASE_URL", "LOG_LEVEL", "JWT_SECRET", "TOKEN_TTL", "CORS_ORIGIN",
	"AUTO_MIGRATE", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SENDER_EMAIL",
}

// clearEnv unsets every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/finance")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := NewConfig(missingFile(t))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.False(t, cfg.MailEnabled())
}

func TestNewConfig_ReportsAllProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN_TTL", "forever")
	t.Setenv("AUTO_MIGRATE", "maybe")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	_, err := NewConfig(missingFile(t))
	require.Error(t, err)
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET", "TOKEN_TTL", "AUTO_MIGRATE", "SENDER_EMAIL"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestNewConfig_DotenvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=postgres://file/finance\nJWT_SECRET=from-file\nPORT=9090\nAUTO_MIGRATE=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "7070")

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/finance", cfg.DatabaseURL)
	assert.Equal(t, "7070", cfg.Port, "environment wins over file")
	assert.True(t, cfg.AutoMigrate)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "x", JWTSecret: "y", Port: "http"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")

	cfg.Port = "8080"
	assert.NoError(t, cfg.Validate())
}
