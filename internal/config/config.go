package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env               string
	DatabaseURL       string
	JWTSecret         string
	JWTTTL            time.Duration
	Port              string
	LogLevel          string
	TelegramToken     string
	FCMServiceAccount string
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:               getEnv("APP_ENV", "dev"),
		DatabaseURL:       getEnv("DATABASE_URL", "goalboards.db"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTTTL:            getDuration("JWT_TTL", 7*24*time.Hour),
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		TelegramToken:     getEnv("TELEGRAM_TOKEN", ""),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
	}
}

// IsDev reports whether the process runs in a local development setup.
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
