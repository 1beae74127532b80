package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the library needs from the environment: where
// the record service lives, which local storage backend persists the
// projection, and how to log.
type Config struct {
	Remote struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}
	Storage struct {
		Backend string // "badger" (default) or "redis"
		Path    string // badger directory
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from environment variables with defaults
// suitable for local development.
func Load() *Config {
	cfg := &Config{}

	cfg.Remote.BaseURL = getEnv("CETELE_REMOTE_URL", "http://localhost:3000/rest/v1")
	cfg.Remote.APIKey = getEnv("CETELE_REMOTE_API_KEY", "")
	cfg.Remote.Timeout = time.Duration(parseInt(getEnv("CETELE_REMOTE_TIMEOUT_SECONDS", "10"), 10)) * time.Second

	cfg.Storage.Backend = getEnv("CETELE_STORAGE_BACKEND", "badger")
	cfg.Storage.Path = getEnv("CETELE_STORAGE_PATH", "./data/cetele")

	cfg.Redis.Addr = getEnv("CETELE_REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("CETELE_REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("CETELE_REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
