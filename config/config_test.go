package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-app/skycast-backend/logger"
)

func init() {
	logger.IsTest = true
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "https://api.openweathermap.org", cfg.Weather.BaseURL)
	assert.Empty(t, cfg.Geocoding.CountryQualifier)
	assert.Equal(t, "US", cfg.Geocoding.ZipCountry)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 1000, cfg.RateLimit.RequestsPerHour)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OPENWEATHER_API_KEY", "abc123")
	t.Setenv("OPENWEATHER_BASE_URL", "http://localhost:8081")
	t.Setenv("GEOCODING_COUNTRY_QUALIFIER", "US")
	t.Setenv("RATE_LIMIT_REQUESTS_PER_MINUTE", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "abc123", cfg.Weather.APIKey)
	assert.Equal(t, "http://localhost:8081", cfg.Weather.BaseURL)
	assert.Equal(t, "US", cfg.Geocoding.CountryQualifier)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadConfig_ProductionRequiresAPIKey(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
}

func TestLoadConfig_InvalidEnvironment(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "staging")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment")
}
