package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // "sqlite", "postgres" or "mysql"
	DatabasePath   string // for sqlite
	DatabaseURL    string // for postgres/mysql
	MigrationsPath string

	SessionDuration   time.Duration
	InviteTokenSecret string
	InviteDuration    time.Duration

	AppBaseURL string

	// Invitation email delivery (Amazon SES); disabled when FromEmail is empty
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./homehq.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SessionDuration:   getEnvDuration("SESSION_DURATION_HOURS", 24),
		InviteTokenSecret: getEnv("INVITE_TOKEN_SECRET", "homehq-dev-secret"),
		InviteDuration:    getEnvDuration("INVITE_DURATION_HOURS", 7*24),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "HomeHQ"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectURL:   getEnv("OAUTH_REDIRECT_URL", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration reads an hour count from the environment or returns a default
func getEnvDuration(key string, defaultHours int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return time.Duration(defaultHours) * time.Hour
}
