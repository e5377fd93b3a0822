package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret string // Required: shared secret verifying primary-login bearer tokens
	JWTIssuer string // Optional: expected issuer claim (default: zzpboek)

	AcceptBaseURL string // Optional: base URL of the invite acceptance page

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./accountant.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	InviteTTL  time.Duration // Overall invite validity (default: 168h)
	OTPTTL     time.Duration // Verification code validity (default: 10m)
	SessionTTL time.Duration // Absolute accountant session lifetime (default: 720h)

	OTPMaxAttempts int           // Failed submissions before lockout, 0 disables (default: 5)
	OTPLockout     time.Duration // Lockout duration once the threshold is hit (default: 15m)

	SMTPHost string // Optional: empty switches mail to log-only delivery
	SMTPPort int
	SMTPFrom string
	SMTPUser string
	SMTPPass string
	SMTPTLS  string // "auto" | "ssl" | "none" (default: auto)
}

func LoadConfig() Config {
	// Best effort: a missing .env file is fine, the environment wins anyway.
	_ = godotenv.Load()

	return Config{
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnvOrDefault("JWT_ISSUER", "zzpboek"),

		AcceptBaseURL: getEnvOrDefault("ACCEPT_BASE_URL", "https://app.zzpboek.nl/accountant/accept"),

		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "accountant.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		InviteTTL:  getEnvDurationOrDefault("INVITE_TTL", 7*24*time.Hour),
		OTPTTL:     getEnvDurationOrDefault("OTP_TTL", 10*time.Minute),
		SessionTTL: getEnvDurationOrDefault("SESSION_TTL", 30*24*time.Hour),

		OTPMaxAttempts: getEnvIntOrDefault("OTP_MAX_ATTEMPTS", 5),
		OTPLockout:     getEnvDurationOrDefault("OTP_LOCKOUT", 15*time.Minute),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPFrom: getEnvOrDefault("SMTP_FROM", "noreply@zzpboek.nl"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPTLS:  getEnvOrDefault("SMTP_TLS", "auto"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
