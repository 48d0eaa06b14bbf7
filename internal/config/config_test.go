package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/portfolio?sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.API.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "portfolio", cfg.MinIO.Bucket)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxImageBytes)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Empty(t, cfg.Upload.ClamdAddr)
}

func TestLoadReadsEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SMTP_PASS", "app-password")
	t.Setenv("CONTACT_OWNER_EMAIL", "owner@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "gem-key", cfg.AI.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.Origins())
	assert.Equal(t, "app-password", cfg.SMTP.Password)
	assert.Equal(t, "owner@example.com", cfg.SMTP.OwnerEmail)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Run("database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "x")
		_, err := Load()
		require.ErrorContains(t, err, "DATABASE_URL")
	})
	t.Run("jwt secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/db")
		t.Setenv("JWT_SECRET", "   ")
		_, err := Load()
		require.ErrorContains(t, err, "JWT_SECRET")
	})
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	assert.Panics(t, func() { MustLoad() })
}
