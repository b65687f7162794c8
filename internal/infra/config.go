package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
// After LoadConfig parses the file, API keys are overridden from
// environment variables so secrets never have to live in the file.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Feed struct {
		URL    string   `yaml:"url"`
		Assets []string `yaml:"assets"`
	} `yaml:"feed"`

	API struct {
		OpenWeather struct {
			BaseURL string `yaml:"base_url"`
			Key     string `yaml:"key"`
		} `yaml:"openweather"`
		CoinGecko struct {
			BaseURL string `yaml:"base_url"`
			Key     string `yaml:"key"`
		} `yaml:"coingecko"`
		NewsData struct {
			BaseURL string `yaml:"base_url"`
			Key     string `yaml:"key"`
		} `yaml:"newsdata"`
	} `yaml:"api"`

	Refresh struct {
		IntervalSec int `yaml:"interval_sec"`
	} `yaml:"refresh"`

	Alerts struct {
		Simulate bool `yaml:"simulate"` // demo-only random alert generator
	} `yaml:"alerts"`

	Debug struct {
		MetricsAddr string `yaml:"metrics_addr"` // localhost only
	} `yaml:"debug"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultFeedURL is the CoinCap multi-asset price stream. The asset
// list from the config is appended as a query parameter.
const DefaultFeedURL = "wss://ws.coincap.io/prices"

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Feed.URL == "" {
		cfg.Feed.URL = DefaultFeedURL
	}
	if len(cfg.Feed.Assets) == 0 {
		cfg.Feed.Assets = []string{"bitcoin", "ethereum", "solana"}
	}
	if cfg.API.OpenWeather.BaseURL == "" {
		cfg.API.OpenWeather.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.API.CoinGecko.BaseURL == "" {
		cfg.API.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.API.NewsData.BaseURL == "" {
		cfg.API.NewsData.BaseURL = "https://newsdata.io/api/1"
	}
	if cfg.Refresh.IntervalSec <= 0 {
		cfg.Refresh.IntervalSec = 60
	}
	if cfg.Debug.MetricsAddr == "" {
		cfg.Debug.MetricsAddr = "localhost:6061"
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Feed.URL, "ws://") && !strings.HasPrefix(c.Feed.URL, "wss://") {
		return fmt.Errorf("invalid feed URL: %s", c.Feed.URL)
	}
	if len(c.Feed.Assets) == 0 {
		return fmt.Errorf("at least one feed asset is required")
	}
	if c.Refresh.IntervalSec <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	return nil
}

// overrideWithEnv overrides API keys from environment variables.
// Environment variables take precedence over the config file.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("NEXUS_OPENWEATHER_KEY"); key != "" {
		cfg.API.OpenWeather.Key = key
	}
	if key := os.Getenv("NEXUS_COINGECKO_KEY"); key != "" {
		cfg.API.CoinGecko.Key = key
	}
	if key := os.Getenv("NEXUS_NEWSDATA_KEY"); key != "" {
		cfg.API.NewsData.Key = key
	}
}
