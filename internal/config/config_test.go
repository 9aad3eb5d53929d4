package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshExpiry)
	assert.Equal(t, 30*time.Minute, cfg.Auth.VerificationExpiry)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetExpiry)
	assert.Equal(t, 8, cfg.Auth.MinPasswordLength)
	assert.NotEqual(t, cfg.Auth.SecretKey, cfg.Auth.RefreshSecretKey)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "14")
	t.Setenv("SECRET_KEY", "s1")
	t.Setenv("REFRESH_SECRET_KEY", "s2")
	t.Setenv("DB_PORT", "5433")

	cfg := Load()

	assert.Equal(t, 45*time.Minute, cfg.Auth.AccessExpiry)
	assert.Equal(t, 14*24*time.Hour, cfg.Auth.RefreshExpiry)
	assert.Equal(t, "s1", cfg.Auth.SecretKey)
	assert.Equal(t, "s2", cfg.Auth.RefreshSecretKey)
	assert.Equal(t, 5433, cfg.Database.Port)
}

func TestLoadIgnoresUnparsableInt(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "thirty")
	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessExpiry)
}

func TestDatabaseURL(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/shop?sslmode=disable", db.URL())
}
