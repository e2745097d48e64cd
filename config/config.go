package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Audit     AuditConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuditConfig controls how the service accepts audits. The fetch timeout,
// user-agent and pause between URLs are fixed in the engine and audit
// packages and are not configurable.
type AuditConfig struct {
	// MaxURLs caps the URL list accepted by one API request.
	MaxURLs int // default: 100
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// JobsConfig controls the async job store.
type JobsConfig struct {
	// MaxEntries is the maximum number of jobs kept in memory.
	MaxEntries int // default: 1000

	// TTL is how long finished and running jobs are kept.
	TTL time.Duration // default: 1h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SEOAUDIT_HOST", "0.0.0.0"),
			Port: envIntOr("SEOAUDIT_PORT", 8080),
			Mode: envOr("SEOAUDIT_MODE", "release"),
		},
		Audit: AuditConfig{
			MaxURLs: envIntOr("SEOAUDIT_MAX_URLS", 100),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SEOAUDIT_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SEOAUDIT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SEOAUDIT_RATE_RPS", 5.0),
			Burst:             envIntOr("SEOAUDIT_RATE_BURST", 10),
		},
		Jobs: JobsConfig{
			MaxEntries: envIntOr("SEOAUDIT_JOBS_MAX", 1000),
			TTL:        envDurationOr("SEOAUDIT_JOBS_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("SEOAUDIT_LOG_LEVEL", "info"),
			Format: envOr("SEOAUDIT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
