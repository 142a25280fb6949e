package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Tenant.RequireActive)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "clinics_test")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("TENANT_REQUIRE_ACTIVE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "clinics_test", cfg.Database.DBName)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.True(t, cfg.Tenant.RequireActive)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"unknown cache", func(c *Config) { c.Cache.Type = "memcached" }, "invalid cache type"},
		{"short secret", func(c *Config) { c.Auth.Secret = "short" }, "auth secret"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("disabled cache ignores type", func(t *testing.T) {
		cfg := *base
		cfg.Cache.Enabled = false
		cfg.Cache.Type = "anything"
		assert.NoError(t, cfg.Validate())
	})
}
