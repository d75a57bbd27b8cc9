package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration
type AppConfig struct {
	// Base URL of the remote restaurant API
	BackendBaseURL string

	// Where the local cache database and logs live
	DataPath string

	// Listen addresses
	HTTPPort string
	WSPort   string

	// Sync worker
	EnableAutoSync bool
	SyncInterval   time.Duration
	LogRetention   int // Days of sync logs to keep
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Every setting has a hard-coded local default.
func Load() *AppConfig {
	// Missing .env is fine, plain environment variables still apply
	_ = godotenv.Load()

	return &AppConfig{
		BackendBaseURL: backendBaseURL(),
		DataPath:       envOr("DATA_PATH", "./data"),
		HTTPPort:       envOr("HTTP_PORT", "8090"),
		WSPort:         envOr("WS_PORT", "8080"),
		EnableAutoSync: envBool("ENABLE_AUTO_SYNC", true),
		SyncInterval:   time.Duration(envInt("SYNC_INTERVAL_MINUTES", 15)) * time.Minute,
		LogRetention:   envInt("SYNC_LOG_RETENTION_DAYS", 7),
	}
}

// backendBaseURL resolves the remote service address. Any trailing slash is
// stripped so request paths can always start with "/".
func backendBaseURL() string {
	raw := os.Getenv("API_BASE_URL")
	if raw == "" {
		raw = os.Getenv("BACKEND_API_URL")
	}
	if raw == "" {
		raw = "http://localhost:8000"
	}
	return strings.TrimRight(raw, "/")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
