package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database: sqlite (default), postgres or mysql
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	SessionDuration time.Duration

	// ProgressTTL is how long a saved quiz snapshot stays resumable.
	ProgressTTL time.Duration
	// AutosaveInterval is advertised to clients for in-session snapshots.
	AutosaveInterval time.Duration

	// AudioCachePath is where fetched listening-question MP3s are stored.
	AudioCachePath string

	// OpenAI settings for the translation pipeline
	OpenAIAPIKey string
	OpenAIModel  string

	// SES settings for reminder emails; empty FromEmail disables sending
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	// Google OAuth sign-in
	GoogleClientID     string
	GoogleClientSecret string

	Debug bool
}

// Load reads configuration from environment variables with sensible
// defaults. A local .env file is honored when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./lingodeck.db"),
		DatabaseURL:      getEnv("DB_URL", ""),
		SessionDuration:  getEnvDuration("SESSION_DURATION", 24*time.Hour),
		ProgressTTL:      getEnvDuration("PROGRESS_TTL", 7*24*time.Hour),
		AutosaveInterval: getEnvDuration("AUTOSAVE_INTERVAL", 5*time.Second),
		AudioCachePath:   getEnv("AUDIO_CACHE_PATH", "./static/audio"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "LingoDeck"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		Debug: getEnvBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable (e.g. "48h", "5s")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvBool reads a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
