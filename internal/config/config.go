// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"squadpage/internal/adapters/directus"
	"squadpage/internal/application/query"
)

// Message store backends.
const (
	BackendDirectus = "directus"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port            string
	Env             string
	APIBase         string
	UpstreamTimeout time.Duration
	TeamName        string
	Tribe           string
	Squad           string
	Cohort          string
	MessageBackend  string
	CSRFKeyHex      string // empty: random key per start (development only)
	RateLimit       int
	StaticDir       string
	LogLevel        slog.Level
	SlowRequestMs   int

	// Notification email; all three must be set to send anything.
	ResendKey  string
	NotifyFrom string
	NotifyTo   []string
}

// Load reads configuration from environment variables, loading a .env file
// first when one is present.
// PRE: none
// POST: Returns a validated config, or an error naming the offending variable
func Load() (*Config, error) {
	// Missing .env is normal outside development
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("SQUADPAGE_ENV", "development"),
		APIBase:        getEnv("SQUADPAGE_API_BASE", directus.DefaultBaseURL),
		TeamName:       getEnv("SQUADPAGE_TEAM_NAME", "Sunny"),
		Tribe:          getEnv("SQUADPAGE_TRIBE", query.DefaultRoster.Tribe),
		Squad:          getEnv("SQUADPAGE_SQUAD", query.DefaultRoster.Squad),
		Cohort:         getEnv("SQUADPAGE_COHORT", query.DefaultRoster.Cohort),
		MessageBackend: strings.ToLower(getEnv("SQUADPAGE_MESSAGE_BACKEND", BackendDirectus)),
		CSRFKeyHex:     os.Getenv("SQUADPAGE_CSRF_KEY"),
		StaticDir:      getEnv("SQUADPAGE_STATIC_DIR", "public"),
		ResendKey:      os.Getenv("SQUADPAGE_RESEND_KEY"),
		NotifyFrom:     os.Getenv("SQUADPAGE_NOTIFY_FROM"),
		NotifyTo:       splitList(os.Getenv("SQUADPAGE_NOTIFY_TO")),
	}

	var err error
	if cfg.UpstreamTimeout, err = time.ParseDuration(getEnv("SQUADPAGE_UPSTREAM_TIMEOUT", directus.DefaultTimeout.String())); err != nil || cfg.UpstreamTimeout <= 0 {
		return nil, errors.New("SQUADPAGE_UPSTREAM_TIMEOUT must be a positive duration")
	}
	if cfg.RateLimit, err = strconv.Atoi(getEnv("SQUADPAGE_RATE_LIMIT", "10")); err != nil || cfg.RateLimit <= 0 {
		return nil, errors.New("SQUADPAGE_RATE_LIMIT must be a positive integer")
	}
	if cfg.SlowRequestMs, err = strconv.Atoi(getEnv("SQUADPAGE_SLOW_REQUEST_MS", "200")); err != nil || cfg.SlowRequestMs <= 0 {
		return nil, errors.New("SQUADPAGE_SLOW_REQUEST_MS must be a positive integer")
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("SQUADPAGE_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("SQUADPAGE_LOG_LEVEL: %w", err)
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}

	switch cfg.MessageBackend {
	case BackendDirectus, BackendMemory:
	default:
		return nil, fmt.Errorf("SQUADPAGE_MESSAGE_BACKEND must be %q or %q, got %q", BackendDirectus, BackendMemory, cfg.MessageBackend)
	}

	if cfg.IsProduction() && cfg.CSRFKeyHex == "" {
		return nil, errors.New("SQUADPAGE_CSRF_KEY is required in production")
	}
	return cfg, nil
}

// IsProduction reports whether SQUADPAGE_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Roster returns the configured tribe, squad and cohort.
func (c *Config) Roster() query.Roster {
	return query.Roster{Tribe: c.Tribe, Squad: c.Squad, Cohort: c.Cohort}
}

// NotificationsEnabled reports whether message notifications can be sent.
func (c *Config) NotificationsEnabled() bool {
	return c.ResendKey != "" && c.NotifyFrom != "" && len(c.NotifyTo) > 0
}

// TrustedOrigins lists the hosts a browser reaches the app on locally.
func (c *Config) TrustedOrigins() []string {
	return []string{"localhost:" + c.Port, "127.0.0.1:" + c.Port}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, entry := range strings.Split(v, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
