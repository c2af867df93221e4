package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds all environment-driven settings for the server.
type Config struct {
	Env           string
	Port          string
	DatabaseURL   string
	PoolMaxConns  int32
	ModelPath     string
	SessionSecret string
	CORSOrigins   []string
}

// Load reads configuration from environment variables with development defaults.
func Load() *Config {
	return &Config{
		Env:           getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "5000"),
		DatabaseURL:   databaseURL(),
		PoolMaxConns:  int32(getEnvAsInt("POOL_MAX_CONNS", 30)),
		ModelPath:     getEnv("MODEL_PATH", "supercar_price_prediction_model.json"),
		SessionSecret: getEnv("SECRET_KEY", "your-secret-key-change-in-production"),
		CORSOrigins:   getEnvAsList("CORS_ORIGINS", "http://localhost:5000,http://127.0.0.1:5000"),
	}
}

// databaseURL prefers DATABASE_URL and falls back to composing a DSN
// from the individual DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(getEnv("DB_USER", "postgres")),
		url.QueryEscape(getEnv("DB_PASSWORD", "password")),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "car_predictions"),
	)
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvAsList(key string, defaultVal string) []string {
	valStr := getEnv(key, defaultVal)
	parts := strings.Split(valStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
