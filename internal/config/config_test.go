package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTokenTTL())
	assert.Equal(t, "grocery@admin.com", cfg.InventoryManagerEmail)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pantry.example.com, http://localhost:3000,")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "5")
	t.Setenv("INVENTORY_MANAGER_EMAIL", "Boss@Example.com")
	t.Setenv("POSTMARK_SERVER_TOKEN", "token")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://pantry.example.com", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "boss@example.com", cfg.InventoryManagerEmail)
	assert.Equal(t, "token", cfg.Mail.PostmarkToken)
}
