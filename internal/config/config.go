package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string // sqlite, postgres, mysql
	DatabasePath    string // sqlite file path
	DatabaseURL     string // postgres/mysql connection string
	MigrationsPath  string
	SessionDuration time.Duration
	JWTSecret       string
	JWTDuration     time.Duration

	// Drill tuning
	ReinsertMin int // positions ahead for re-queued wrong answers
	ReinsertMax int

	// Google sign-in (optional)
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	// Report emails via SES (optional, disabled when FromEmail empty)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./vocadrill.db"),
		DatabaseURL:     getEnv("DB_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration: 24 * time.Hour,
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTDuration:     time.Hour,

		ReinsertMin: getEnvInt("REINSERT_MIN", 3),
		ReinsertMax: getEnvInt("REINSERT_MAX", 5),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBase:  getEnv("OAUTH_REDIRECT_BASE", "http://localhost:8080"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "VocaDrill"),

		Debug: getEnv("DEBUG", "false") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
