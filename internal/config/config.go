package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime settings for the client and the fake API server.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Logger  LoggerConfig
	Theme   string
	FakeAPI FakeAPIConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Home string
	// Store selects the token backend: "bolt" or "file".
	Store string
	// Token, when set, overrides whatever the store holds.
	Token string
}

type LoggerConfig struct {
	Level    string
	Encoding string
	File     string
}

type FakeAPIConfig struct {
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from environment variables (optionally .env).
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	home := getString("TODO_HOME", "")
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		home = filepath.Join(dir, ".tada")
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getString("TODO_API_URL", "http://localhost:3000"), "/"),
			Timeout: getDuration("TODO_HTTP_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Home:  home,
			Store: strings.ToLower(getString("TODO_TOKEN_STORE", "bolt")),
			Token: strings.TrimSpace(os.Getenv("TODO_TOKEN")),
		},
		Logger: LoggerConfig{
			Level:    getString("TODO_LOG_LEVEL", "info"),
			Encoding: getString("TODO_LOG_ENCODING", "json"),
			File:     getString("TODO_LOG_FILE", filepath.Join(home, "todo.log")),
		},
		Theme: getString("TODO_THEME", "classic"),
		FakeAPI: FakeAPIConfig{
			Addr:      getString("FAKEAPI_ADDR", ":3000"),
			JWTSecret: getString("FAKEAPI_JWT_SECRET", "dev-secret"),
			TokenTTL:  getDuration("FAKEAPI_TOKEN_TTL", 24*time.Hour),
		},
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
