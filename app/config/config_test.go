package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_BASE_URL", "BACKEND_API_URL", "DATA_PATH", "HTTP_PORT", "WS_PORT",
		"ENABLE_AUTO_SYNC", "SYNC_INTERVAL_MINUTES", "SYNC_LOG_RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.BackendBaseURL != "http://localhost:8000" {
		t.Errorf("backend = %q", cfg.BackendBaseURL)
	}
	if cfg.HTTPPort != "8090" || cfg.WSPort != "8080" {
		t.Errorf("ports = %q / %q", cfg.HTTPPort, cfg.WSPort)
	}
	if !cfg.EnableAutoSync {
		t.Error("auto sync must default on")
	}
	if cfg.SyncInterval != 15*time.Minute {
		t.Errorf("interval = %v", cfg.SyncInterval)
	}
	if cfg.LogRetention != 7 {
		t.Errorf("retention = %d", cfg.LogRetention)
	}
}

func TestBackendURLPrecedenceAndTrim(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("BACKEND_API_URL", "https://other.example.com")

	cfg := Load()
	if cfg.BackendBaseURL != "https://api.example.com" {
		t.Errorf("backend = %q, want API_BASE_URL with slash trimmed", cfg.BackendBaseURL)
	}
}

func TestBackendURLFallbackVariable(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("BACKEND_API_URL", "https://other.example.com")

	cfg := Load()
	if cfg.BackendBaseURL != "https://other.example.com" {
		t.Errorf("backend = %q", cfg.BackendBaseURL)
	}
}

func TestMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_MINUTES", "often")
	t.Setenv("ENABLE_AUTO_SYNC", "sometimes")

	cfg := Load()
	if cfg.SyncInterval != 15*time.Minute {
		t.Errorf("interval = %v, want default on bad input", cfg.SyncInterval)
	}
	if !cfg.EnableAutoSync {
		t.Error("bad boolean must fall back to the default")
	}
}
