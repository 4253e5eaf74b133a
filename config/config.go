// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/skycast-app/skycast-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
}

// WeatherConfig holds the upstream weather provider settings. The API key is
// confined to the relay's server-side request construction and never passed to
// or through the resolution core.
type WeatherConfig struct {
	APIKey string `mapstructure:"API_KEY" yaml:"api_key"`
	// BaseURL is the OpenWeather host root; the relay appends
	// data/3.0/onecall and geo/1.0/{direct,zip,reverse} to it.
	BaseURL string `mapstructure:"BASE_URL" yaml:"base_url"`
}

// GeocodingConfig holds client-side geocoding policy.
type GeocodingConfig struct {
	// CountryQualifier, when non-empty, is appended to free-text direct
	// queries as ",<qualifier>". Empty means unqualified queries.
	CountryQualifier string `mapstructure:"COUNTRY_QUALIFIER" yaml:"country_qualifier"`
	// ZipCountry is the ISO country code appended to 5-digit zip lookups.
	ZipCountry string `mapstructure:"ZIP_COUNTRY" yaml:"zip_country"`
}

// RateLimitConfig holds configuration for relay rate limiting.
type RateLimitConfig struct {
	// Maximum relay requests per minute per client
	RequestsPerMinute int `mapstructure:"REQUESTS_PER_MINUTE" yaml:"requests_per_minute"`
	// Maximum relay requests per hour per client
	RequestsPerHour int `mapstructure:"REQUESTS_PER_HOUR" yaml:"requests_per_hour"`
}

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	Weather   WeatherConfig   `mapstructure:"WEATHER" yaml:"weather"`
	Geocoding GeocodingConfig `mapstructure:"GEOCODING" yaml:"geocoding"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("WEATHER.BASE_URL", "https://api.openweathermap.org")
	v.SetDefault("GEOCODING.COUNTRY_QUALIFIER", "")
	v.SetDefault("GEOCODING.ZIP_COUNTRY", "US")
	v.SetDefault("RATE_LIMIT.REQUESTS_PER_MINUTE", 60)
	v.SetDefault("RATE_LIMIT.REQUESTS_PER_HOUR", 1000)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"WEATHER.API_KEY", "OPENWEATHER_API_KEY"},
		{"WEATHER.BASE_URL", "OPENWEATHER_BASE_URL"},
		{"GEOCODING.COUNTRY_QUALIFIER", "GEOCODING_COUNTRY_QUALIFIER"},
		{"GEOCODING.ZIP_COUNTRY", "GEOCODING_ZIP_COUNTRY"},
		{"RATE_LIMIT.REQUESTS_PER_MINUTE", "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"RATE_LIMIT.REQUESTS_PER_HOUR", "RATE_LIMIT_REQUESTS_PER_HOUR"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"allowed_origins", cfg.Server.AllowedOrigins,
		"weather_base_url", cfg.Weather.BaseURL,
		"api_key", logger.MaskSensitiveString(cfg.Weather.APIKey, 3, 2),
	)

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Environment != EnvDevelopment && cfg.Server.Environment != EnvProduction {
		return fmt.Errorf("invalid environment: %s", cfg.Server.Environment)
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.IsProduction() && cfg.Weather.APIKey == "" {
		return fmt.Errorf("OPENWEATHER_API_KEY is required in production")
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 || cfg.RateLimit.RequestsPerHour <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}
