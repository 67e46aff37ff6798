package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAPIBaseURL is the production admin API host.
	DefaultAPIBaseURL = "https://jacobpersonal.onrender.com"

	minNoticeTTLMs = 1200
	maxNoticeTTLMs = 3000
)

// Config holds everything the console needs to reach the admin API and to
// keep its local state. It is built once in main and passed down; nothing
// reads the environment after that.
type Config struct {
	APIBaseURL         string
	DBPath             string
	HTTPTimeoutMs      int
	SessionMaxAgeHours int
	LogLevel           string
	LogFile            string
	LogCalls           bool
	NoticeTTLMs        int
}

// DefaultConfig returns a Config pointing at the production API with a
// 24 hour session lifetime.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:         DefaultAPIBaseURL,
		DBPath:             filepath.Join(stateDir(), "courseadmin.db"),
		HTTPTimeoutMs:      15000,
		SessionMaxAgeHours: 24,
		LogLevel:           "info",
		LogFile:            filepath.Join(stateDir(), "courseadmin.log"),
		LogCalls:           false,
		NoticeTTLMs:        1500,
	}
}

// Load reads COURSEADMIN_* environment variables on top of DefaultConfig.
// Malformed values are ignored.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("COURSEADMIN_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("COURSEADMIN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("COURSEADMIN_HTTP_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeoutMs = n
		}
	}
	if v := os.Getenv("COURSEADMIN_SESSION_MAX_AGE_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionMaxAgeHours = n
		}
	}
	if v := os.Getenv("COURSEADMIN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("COURSEADMIN_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("COURSEADMIN_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCalls = b
		}
	}
	if v := os.Getenv("COURSEADMIN_NOTICE_TTL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NoticeTTLMs = clamp(n, minNoticeTTLMs, maxNoticeTTLMs)
		}
	}

	return cfg
}

// HTTPTimeout is the per-request transport timeout.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
}

// SessionMaxAge is how long a stored credential stays valid after login.
func (c Config) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeHours) * time.Hour
}

// NoticeSuccessTTL is how long a success notice stays on screen.
func (c Config) NoticeSuccessTTL() time.Duration {
	return time.Duration(clamp(c.NoticeTTLMs, minNoticeTTLMs, maxNoticeTTLMs)) * time.Millisecond
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".courseadmin"
	}
	return filepath.Join(home, ".courseadmin")
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
