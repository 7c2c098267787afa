package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment. Values come
// from the process environment, optionally seeded from a .env file by the
// entrypoint (godotenv).
type Config struct {
	Port        string
	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret   string
	JWTValidity time.Duration

	TwoFactorIssuer   string
	PendingTwoFactor  time.Duration
	RememberDuration  time.Duration
	ConfirmationValid time.Duration

	RequestLimitPerMinute int64
	EmailLimitPerMinute   int64

	KafkaBrokers []string

	MailAPIURL string
	MailAPIKey string
	MailFrom   string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=takenote port=5432 sslmode=disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTValidity: getEnvDuration("JWT_VALIDITY", 24*time.Hour),

		TwoFactorIssuer:   getEnv("TWO_FACTOR_ISSUER", "takenote"),
		PendingTwoFactor:  getEnvDuration("TWO_FACTOR_PENDING_TTL", 5*time.Minute),
		RememberDuration:  getEnvDuration("TWO_FACTOR_REMEMBER_DURATION", 30*24*time.Hour),
		ConfirmationValid: getEnvDuration("CONFIRMATION_TOKEN_TTL", 24*time.Hour),

		RequestLimitPerMinute: int64(getEnvInt("RATE_LIMIT_REQUEST", 100)),
		EmailLimitPerMinute:   int64(getEnvInt("RATE_LIMIT_EMAIL", 10)),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

		MailAPIURL: getEnv("MAIL_API_URL", ""),
		MailAPIKey: getEnv("MAIL_API_KEY", ""),
		MailFrom:   getEnv("MAIL_FROM", "noreply@takenote.app"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
