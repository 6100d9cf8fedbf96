// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// GenAIProvider selects the generation backend: "openai" or "anthropic".
	// Defaults to "openai".
	GenAIProvider string

	// OpenAIKey is the OpenAI API key. Required when GenAIProvider is
	// "openai".
	OpenAIKey string

	// AnthropicKey is the Anthropic API key. Required when GenAIProvider is
	// "anthropic".
	AnthropicKey string

	// GenAIModel overrides the provider's default model when set.
	GenAIModel string

	// GenAITimeout bounds the single generation call. Defaults to 60s.
	GenAITimeout time.Duration

	// EventsFeedURL is the base URL of the live ticketing feed. The feed
	// source is disabled when empty.
	EventsFeedURL string

	// EventsFeedKey is the API key the ticketing feed expects, if any.
	EventsFeedKey string

	// SourceTimeout bounds each individual source fetch. Defaults to 10s.
	SourceTimeout time.Duration

	// SMTPAddr is the mail relay as "host:port". Invitations are disabled
	// when empty.
	SMTPAddr string

	// SMTPUser and SMTPPass authenticate against the relay. Empty user means
	// unauthenticated SMTP.
	SMTPUser string
	SMTPPass string

	// MailFrom is the sender address on invitations and the calendar
	// organizer. Defaults to "planner@dayout.local".
	MailFrom string

	// PublicBaseURL is the origin share links are built against.
	// Defaults to "http://localhost:5173".
	PublicBaseURL string

	// SessionTTL is how long an idle itinerary session survives.
	// Defaults to 2h.
	SessionTTL time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		GenAIProvider: getEnv("GENAI_PROVIDER", "openai"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		GenAIModel:    os.Getenv("GENAI_MODEL"),
		GenAITimeout:  getDuration("GENAI_TIMEOUT", 60*time.Second),
		EventsFeedURL: os.Getenv("EVENTS_FEED_URL"),
		EventsFeedKey: os.Getenv("EVENTS_FEED_API_KEY"),
		SourceTimeout: getDuration("SOURCE_TIMEOUT", 10*time.Second),
		SMTPAddr:      os.Getenv("SMTP_ADDR"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      getEnv("MAIL_FROM", "planner@dayout.local"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
		SessionTTL:    getDuration("SESSION_TTL", 2*time.Hour),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	switch cfg.GenAIProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "anthropic":
		if cfg.AnthropicKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	default:
		return Config{}, fmt.Errorf("GENAI_PROVIDER must be \"openai\" or \"anthropic\", got %q", cfg.GenAIProvider)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses the environment variable as a time.Duration ("45s",
// "2m"), falling back on absence or a parse failure.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
