package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Matching
	QueueTTLSeconds      int
	SweepIntervalSeconds int
	CandidateWindow      int

	// Security
	SessionTokenTTLMinutes int
	JWTSecret              string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/peermatch?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Matching
		QueueTTLSeconds:      getEnvInt("QUEUE_TTL_SECONDS", 300),
		SweepIntervalSeconds: getEnvInt("SWEEP_INTERVAL_SECONDS", 60),
		CandidateWindow:      getEnvInt("CANDIDATE_WINDOW", 50),

		// Security
		SessionTokenTTLMinutes: getEnvInt("SESSION_TOKEN_TTL_MINUTES", 120),
		JWTSecret:              getEnv("JWT_SECRET", "change-me-in-production"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
