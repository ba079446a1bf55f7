package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Identity provider
	IdentityJWTSecret     string // Verifies provider-issued identity tokens
	IdentityWebhookSecret string // Verifies provider sync webhooks

	// File lifecycle
	RetentionWindow time.Duration // Tombstone age before permanent purge
	SweepInterval   time.Duration // How often the purge sweeper runs

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services
	S3UploadExpiry  time.Duration // Presigned upload handle lifetime
	S3DisplayExpiry time.Duration // Presigned display URL lifetime
	S3CallTimeout   time.Duration // Per-call deadline against the blob backend
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "FileDrive"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/filedrive.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Identity provider
		IdentityJWTSecret:     envRequired("IDENTITY_JWT_SECRET"),
		IdentityWebhookSecret: envString("IDENTITY_WEBHOOK_SECRET", ""),

		// File lifecycle
		RetentionWindow: envDuration("RETENTION_WINDOW", 24*time.Hour),
		SweepInterval:   envDuration("SWEEP_INTERVAL", 10*time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (S3-compatible - required, holds the file bytes)
		S3Region:        envRequired("S3_REGION"),
		S3Bucket:        envRequired("S3_BUCKET"),
		S3AccessKey:     envRequired("S3_ACCESS_KEY"),
		S3SecretKey:     envRequired("S3_SECRET_KEY"),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3UploadExpiry:  envDuration("S3_UPLOAD_EXPIRY", 15*time.Minute),
		S3DisplayExpiry: envDuration("S3_DISPLAY_EXPIRY", 1*time.Hour),
		S3CallTimeout:   envDuration("S3_CALL_TIMEOUT", 10*time.Second),
	}

	// Production: webhook signature verification must be on
	if cfg.IsProduction() && cfg.IdentityWebhookSecret == "" {
		slog.Error("production deployment requires IDENTITY_WEBHOOK_SECRET",
			"hint", "set APP_ENV=development to accept unsigned webhooks locally")
		os.Exit(1)
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
