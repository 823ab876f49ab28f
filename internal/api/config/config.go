package config

import (
	"equity-insights/pkg/config"
)

// AlphaVantage holds the configuration for the Alpha Vantage API.
type AlphaVantage struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxRetries          int    `mapstructure:"max_retries"`
}

// Finnhub holds the configuration for the Finnhub API.
type Finnhub struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxRetries          int    `mapstructure:"max_retries"`
}

// Storage selects and configures the watchlist storage backend.
type Storage struct {
	Driver   string `mapstructure:"driver"`
	FilePath string `mapstructure:"file_path"`
}

// MacroCalendar points at the curated macro calendar data file.
type MacroCalendar struct {
	Path string `mapstructure:"path"`
}

// Auth holds identity extraction settings.
type Auth struct {
	LocalDevUserID string `mapstructure:"local_dev_user_id"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App           config.App      `mapstructure:"app"`
	Logger        config.Logger   `mapstructure:"logger"`
	Database      config.Database `mapstructure:"database"`
	Redis         config.Redis    `mapstructure:"redis"`
	API           config.API      `mapstructure:"api"`
	AlphaVantage  AlphaVantage    `mapstructure:"alpha_vantage"`
	Finnhub       Finnhub         `mapstructure:"finnhub"`
	Storage       Storage         `mapstructure:"storage"`
	MacroCalendar MacroCalendar   `mapstructure:"macro_calendar"`
	Auth          Auth            `mapstructure:"auth"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
