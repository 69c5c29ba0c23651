// File: /config/config.go
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Testing enables the /dev reset and seed endpoints.
	Testing bool

	// Rate limits for the auth endpoints, requests per minute.
	LoginRateLimit    int
	RegisterRateLimit int
}

func Load() *Config {
	loginRate, _ := strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "20"))
	registerRate, _ := strconv.Atoi(getEnv("REGISTER_RATE_LIMIT", "15"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "testbook.db"),
		JWTSecret:   getEnv("JWT_SECRET", "testbook-secret-key-for-testing-only-do-not-use-in-production"),
		Testing:     getEnv("TESTING", "false") == "true",

		LoginRateLimit:    loginRate,
		RegisterRateLimit: registerRate,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
