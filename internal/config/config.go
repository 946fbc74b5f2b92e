package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	CORSOrigins string
	// Auth
	JWTSecret string
	JWTExpiry time.Duration
	// Completion provider
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	Model          string
	MaxTokens      int64
	Temperature    float64
	RequestTimeout time.Duration
	PromptProfile  string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getDuration("JWT_EXPIRY", 24*time.Hour),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MaxTokens:      getInt64("OPENAI_MAX_TOKENS", 1024),
		Temperature:    getFloat("OPENAI_TEMPERATURE", 0.7),
		RequestTimeout: getDuration("OPENAI_TIMEOUT", 60*time.Second),
		PromptProfile:  getEnv("PROMPT_PROFILE", "assistant"),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
