// Package config loads and validates application configuration from
// environment variables. Load runs once at start-up; nothing else in the
// process reads the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/dealer-inventory/internal/slug"
	"github.com/pkordes/dealer-inventory/internal/storage"
)

// Features are the runtime toggles for optional admin behaviour.
type Features struct {
	// AuditLog records before/after snapshots of admin writes.
	AuditLog bool
	// SessionLog records one row per admin request.
	SessionLog bool
}

// Config holds all configuration values for the API server and the CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel is one of debug, info, warn, error. Defaults to "info".
	LogLevel string

	// CORSOrigins defaults to the local Vite dev server.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MaxUploadBytes caps image uploads. Defaults to 10 MiB.
	MaxUploadBytes int64

	// SlugMaxAttempts bounds the slug candidate search.
	SlugMaxAttempts int

	// RedisURL enables the vehicle detail cache when set.
	RedisURL string
	CacheTTL time.Duration

	SentryDSN         string
	SentryEnvironment string

	// S3 is left disabled (empty Bucket) when S3_BUCKET is unset.
	S3 storage.Config

	Features Features
}

// Load reads configuration from environment variables and returns a Config.
// Every missing or malformed variable is reported in one error.
func Load() (Config, error) {
	p := &parser{}
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MaxBodyBytes:      p.int64("MAX_BODY_BYTES", 1<<20),
		MaxUploadBytes:    p.int64("MAX_UPLOAD_BYTES", 10<<20),
		SlugMaxAttempts:   int(p.int64("SLUG_MAX_ATTEMPTS", slug.DefaultMaxAttempts)),
		RedisURL:          os.Getenv("REDIS_URL"),
		CacheTTL:          p.duration("CACHE_TTL", 5*time.Minute),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),
		S3: storage.Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
			PathStyle: p.bool("S3_PATH_STYLE", false),
		},
		Features: Features{
			AuditLog:   p.bool("FEATURE_AUDIT_LOG", true),
			SessionLog: p.bool("FEATURE_SESSION_LOG", true),
		},
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		p.missing = append(p.missing, "DATABASE_URL")
	}

	if err := p.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parser accumulates problems so Load can report them all at once.
type parser struct {
	missing []string
	invalid []string
}

func (p *parser) int64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return b
}

func (p *parser) err() error {
	var parts []string
	if len(p.missing) > 0 {
		parts = append(parts, "required environment variables not set: "+strings.Join(p.missing, ", "))
	}
	if len(p.invalid) > 0 {
		parts = append(parts, "invalid environment variables: "+strings.Join(p.invalid, ", "))
	}
	if len(parts) == 0 {
		return nil
	}
	return errors.New(strings.Join(parts, "; "))
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
