package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "testdata/missing.yaml")
	t.Setenv("API_URL", "")

	cfg := Load()

	assert.Equal(t, DefaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.True(t, cfg.Session.LogoutOnUnauthorized)
	assert.Equal(t, 5.0, cfg.Business.MinOrderKg)
	assert.Equal(t, 5.0, cfg.Business.OrderStepKg)
	assert.Equal(t, 60.0, cfg.Business.BagWeightKg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "testdata/missing.yaml")
	t.Setenv("API_URL", "https://rice.example.com/api")
	t.Setenv("PORT", "8088")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_SERVICE_HOST", "redis.default")

	cfg := Load()

	assert.Equal(t, "https://rice.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "redis.default:6379", cfg.Redis.Addr)
}
