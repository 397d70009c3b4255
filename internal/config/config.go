package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup; mail credentials and the store handle are
// injected into the services from here rather than read from global scope.
type Config struct {
	Env         string
	ListenAddr  string
	DatabaseURL string

	LogLevel  string
	LogFormat string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Notification dispatch policy.
	NotifyBudget   time.Duration
	MailRetries    int
	MailRetryDelay time.Duration
	MailTimeout    time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Load reads configuration from the environment, after merging in a local
// .env file when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:         getenv("APP_ENV", "development"),
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getenv("MAIL_FROM", os.Getenv("SMTP_USER")),

		NotifyBudget:   getenvDuration("NOTIFY_BUDGET", 30*time.Second),
		MailRetries:    getenvInt("MAIL_RETRIES", 2),
		MailRetryDelay: getenvDuration("MAIL_RETRY_DELAY", time.Second),
		MailTimeout:    getenvDuration("MAIL_TIMEOUT", 5*time.Second),
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}
