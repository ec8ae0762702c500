package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.True(t, cfg.RunMigrations)
	assert.Contains(t, cfg.TrustedProxies, "10.0.0.0/8")
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ProductionRequiresLongSecret(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32")

	t.Setenv("JWT_SECRET", strings.Repeat("x", 32))
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_CustomTTLs(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "24h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenTTL)
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "0s")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_TrustedProxiesList(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("TRUSTED_PROXIES", "10.1.0.0/16,192.168.5.0/24")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.1.0.0/16", "192.168.5.0/24"}, cfg.TrustedProxies)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "u", Password: "p@ss", Name: "academy"}
	dsn := d.DSN()
	assert.Contains(t, dsn, "tcp(db:3306)")
	assert.Contains(t, dsn, "/academy")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")

	d.URL = "root:root@tcp(localhost:3307)/other"
	assert.Equal(t, d.URL, d.DSN())
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  slog.Level
	}{
		{"development", "", slog.LevelDebug},
		{"production", "", slog.LevelInfo},
		{"production", "warning", slog.LevelWarn},
		{"development", "critical", slog.LevelError},
	}
	for _, tt := range tests {
		c := &Config{Env: tt.env, LogLevel: tt.level}
		assert.Equal(t, tt.want, c.SlogLevel(), "env=%s level=%s", tt.env, tt.level)
	}
}
