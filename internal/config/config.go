package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string

	// Server
	ServerAddr string
	BaseURL    string

	// Dataset
	DatasetPath  string
	DatasetSheet string // sheet name for .xlsx datasets; first sheet when empty

	// Usage store (optional)
	DatabaseURL         string
	ExportRetentionDays int // export log entries older than this are pruned

	// Session storage (optional, in-memory when empty)
	RedisURL string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // Optional: enables mTLS client verification

	// OIDC (optional, dashboard is public when OIDCIssuer is empty)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting, requests per minute per IP
	RateLimitMax int

	// Site Branding
	SiteTitle    string // env: SITE_TITLE
	SiteTagline  string // env: SITE_TAGLINE
	SiteFooter   string // env: SITE_FOOTER
	SiteImageURL string // env: SITE_IMAGE_URL, optional landing page image
	PlotlyURL    string // env: PLOTLY_URL, browser charting bundle
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		DatasetPath:      getEnv("DATASET_PATH", "dataset/processed.csv"),
		DatasetSheet:     getEnv("DATASET_SHEET", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		TLSEnabled:       getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:        getEnv("TLS_CA_FILE", ""),
		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 300),

		SiteTitle:    getEnv("SITE_TITLE", "FunOlympic Games Analysis Dashboard"),
		SiteTagline:  getEnv("SITE_TAGLINE", "Viewership insights from the FunOlympic Games"),
		SiteFooter:   getEnv("SITE_FOOTER", "FunOlympic Games Analysis Dashboard"),
		SiteImageURL: getEnv("SITE_IMAGE_URL", ""),
		PlotlyURL:    getEnv("PLOTLY_URL", "https://cdn.plot.ly/plotly-2.35.2.min.js"),

		ExportRetentionDays: getEnvInt("EXPORT_RETENTION_DAYS", 90),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AuthEnabled returns true if OIDC login is configured.
func (c *Config) AuthEnabled() bool {
	return c.OIDCIssuer != ""
}

// UsageStoreEnabled returns true if view usage is persisted to Postgres.
func (c *Config) UsageStoreEnabled() bool {
	return c.DatabaseURL != ""
}
