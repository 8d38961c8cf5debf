package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		LogLevel string `toml:"log_level"`
	} `toml:"app"`

	Exchange struct {
		Binance struct {
			RestURL    string `toml:"rest_url"` // e.g. https://fapi.binance.com
			TimeoutSec int    `toml:"timeout_sec"`
		} `toml:"binance"`
	} `toml:"exchange"`

	Fetch struct {
		Concurrent bool `toml:"concurrent"`
	} `toml:"fetch"`

	Storage struct {
		Enabled bool `toml:"enabled"`

		Redis struct {
			Enabled    bool   `toml:"enabled"`
			Addr       string `toml:"addr"`
			Password   string `toml:"password"`
			DB         int    `toml:"db"`
			Prefix     string `toml:"prefix"`
			TTLSeconds int    `toml:"ttl_seconds"`
			Stream     string `toml:"stream"`
			Channel    string `toml:"channel"`
		} `toml:"redis"`

		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`
	} `toml:"storage"`
}

// Default returns a config with every default applied.
func Default() *Config {
	var cfg Config
	cfg.Fetch.Concurrent = true
	applyDefaults(&cfg)
	return &cfg
}

// Load reads .env (if present) and the TOML file at path. When optional is
// true a missing file yields the defaults.
func Load(path string, optional bool) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !(optional && errors.Is(err, os.ErrNotExist)) {
			return nil, err
		}
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VOLRANK_BINANCE_REST_URL"); v != "" {
		cfg.Exchange.Binance.RestURL = v
	}
	if v := os.Getenv("VOLRANK_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv("VOLRANK_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.LogLevel) == "" {
		cfg.App.LogLevel = "info"
	}
	if strings.TrimSpace(cfg.Exchange.Binance.RestURL) == "" {
		cfg.Exchange.Binance.RestURL = "https://fapi.binance.com"
	}
	if cfg.Exchange.Binance.TimeoutSec <= 0 {
		cfg.Exchange.Binance.TimeoutSec = 10
	}
	if strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		cfg.Storage.Redis.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.Storage.Redis.Prefix) == "" {
		cfg.Storage.Redis.Prefix = "volrank"
	}
	if strings.TrimSpace(cfg.Storage.SQLite.Path) == "" {
		cfg.Storage.SQLite.Path = "data/volrank.db"
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Exchange.Binance.RestURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("exchange.binance.rest_url is not an http(s) url: %q", cfg.Exchange.Binance.RestURL)
	}

	if !cfg.Storage.Enabled {
		return nil
	}
	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn empty but enabled")
	}
	if cfg.Storage.Redis.TTLSeconds < 0 {
		return errors.New("storage.redis.ttl_seconds is negative")
	}
	return nil
}
