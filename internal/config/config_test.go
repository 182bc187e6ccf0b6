package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{
		"HTTP_PORT", "DATABASE_URL", "METALS_DEV_URL", "METALS_DEV_API_KEY",
		"FUTURES_URL", "REFRESH_CURRENCIES", "REFRESH_INTERVAL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.MetalsDevURL != "https://api.metals.dev" {
		t.Errorf("MetalsDevURL = %q, want default", cfg.MetalsDevURL)
	}
	if cfg.FuturesURL != "https://query1.finance.yahoo.com" {
		t.Errorf("FuturesURL = %q, want default", cfg.FuturesURL)
	}
	if len(cfg.RefreshCurrencies) != 2 || cfg.RefreshCurrencies[0] != "USD" || cfg.RefreshCurrencies[1] != "CAD" {
		t.Errorf("RefreshCurrencies = %v, want [USD CAD]", cfg.RefreshCurrencies)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("RefreshInterval = %v, want 15m", cfg.RefreshInterval)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("METALS_DEV_API_KEY", "test-key")
	t.Setenv("REFRESH_CURRENCIES", "eur, cny")
	t.Setenv("REFRESH_INTERVAL", "5m")

	cfg := Load()

	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.MetalsDevAPIKey != "test-key" {
		t.Errorf("MetalsDevAPIKey = %q, want override", cfg.MetalsDevAPIKey)
	}
	if len(cfg.RefreshCurrencies) != 2 || cfg.RefreshCurrencies[0] != "EUR" || cfg.RefreshCurrencies[1] != "CNY" {
		t.Errorf("RefreshCurrencies = %v, want [EUR CNY]", cfg.RefreshCurrencies)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("RefreshInterval = %v, want 5m", cfg.RefreshInterval)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")

	cfg := Load()

	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("RefreshInterval = %v, want default on parse failure", cfg.RefreshInterval)
	}
}
