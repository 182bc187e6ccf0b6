package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPPort            string
	DatabaseURL         string
	MetalsDevURL        string
	MetalsDevAPIKey     string
	FuturesURL          string
	RefreshCurrencies   []string
	RefreshInterval     time.Duration
	SheetsSpreadsheetID string
	SheetsCredentials   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		HTTPPort:            envOrDefault("HTTP_PORT", "8080"),
		DatabaseURL:         envOrDefault("DATABASE_URL", ""),
		MetalsDevURL:        envOrDefault("METALS_DEV_URL", "https://api.metals.dev"),
		MetalsDevAPIKey:     envOrDefaultWarn("METALS_DEV_API_KEY", ""),
		FuturesURL:          envOrDefault("FUTURES_URL", "https://query1.finance.yahoo.com"),
		RefreshCurrencies:   envOrDefaultList("REFRESH_CURRENCIES", []string{"USD", "CAD"}),
		RefreshInterval:     envOrDefaultDuration("REFRESH_INTERVAL", 15*time.Minute),
		SheetsSpreadsheetID: envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		SheetsCredentials:   envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("env var not set, live quotes degraded", "key", key)
	}
	return v
}

func envOrDefaultList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
