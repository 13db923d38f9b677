package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration.
// Populated from environment variables at startup.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Admin    AdminConfig
	MinIO    MinIOConfig
	Email    EmailConfig
	Stream   StreamConfig
	Jobs     JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigin  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// SessionConfig drives the server-side session store.
// Sessions are revocable: logout destroys the Redis entry immediately.
type SessionConfig struct {
	CookieName string
	TTLHours   int
}

// AdminConfig is the fixed-admin login triple. All three values must match
// for a login attempt to be granted the fixed-admin identity.
type AdminConfig struct {
	Email     string
	Password  string
	SecretKey string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	From     string
}

// StreamConfig signs short-lived rare-book stream links.
type StreamConfig struct {
	Secret     string
	TTLMinutes int
}

// JobConfig holds cron expressions for the worker scheduler.
type JobConfig struct {
	OverdueScanSchedule string
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "GCMN Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "gcmn_library"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "library_session"),
			TTLHours:   getEnvInt("SESSION_TTL_HOURS", 24),
		},
		Admin: AdminConfig{
			Email:     getEnv("ADMIN_EMAIL", "admin@gcmn.edu.pk"),
			Password:  getEnv("ADMIN_PASSWORD", ""),
			SecretKey: getEnv("ADMIN_SECRET_KEY", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "library"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnv("SMTP_PORT", "1025"),
			From:     getEnv("EMAIL_FROM", "library@gcmn.edu.pk"),
		},
		Stream: StreamConfig{
			Secret:     getEnv("STREAM_TOKEN_SECRET", "dev-stream-secret"),
			TTLMinutes: getEnvInt("STREAM_TOKEN_TTL_MINUTES", 15),
		},
		Jobs: JobConfig{
			OverdueScanSchedule: getEnv("JOB_OVERDUE_SCAN_SCHEDULE", "0 8 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks production-critical settings.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Admin.Password == "" || c.Admin.SecretKey == "" {
			return fmt.Errorf("ADMIN_PASSWORD and ADMIN_SECRET_KEY must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Stream.Secret == "dev-stream-secret" {
			return fmt.Errorf("STREAM_TOKEN_SECRET must be set in production")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
