package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollInterval   = 600 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID int64
	TelegramAPIURL string // Optional; empty means the public Bot API
	Endpoint       string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	DatabaseURL    string // Optional; enables the delivery journal
	LogLevel       string
	Environment    string
}

// Load reads configuration from environment variables and .env file (if present).
// Every missing secret is reported at once in a *homework.ConfigurationError.
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var missing []string

	cfg.PracticumToken = os.Getenv("PRACTICUM_TOKEN")
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}

	if len(missing) > 0 {
		return nil, &homework.ConfigurationError{Missing: missing}
	}

	var err error
	cfg.TelegramChatID, err = strconv.ParseInt(strings.TrimSpace(chatIDStr), 10, 64)
	if err != nil {
		return nil, &homework.ConfigurationError{Err: fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)}
	}

	cfg.Endpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	intervalStr := os.Getenv("POLL_INTERVAL")
	if intervalStr == "" {
		intervalStr = os.Getenv("RETRY_TIME") // Older name of the same setting
	}
	cfg.PollInterval, err = parseSeconds(intervalStr, DefaultPollInterval)
	if err != nil {
		return nil, &homework.ConfigurationError{Err: fmt.Errorf("invalid POLL_INTERVAL: %w", err)}
	}

	cfg.RequestTimeout, err = parseSeconds(os.Getenv("REQUEST_TIMEOUT"), DefaultRequestTimeout)
	if err != nil {
		return nil, &homework.ConfigurationError{Err: fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)}
	}

	cfg.TelegramAPIURL = os.Getenv("TELEGRAM_API_URL")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// parseSeconds accepts either a Go duration ("10m", "45s") or a plain number of seconds.
func parseSeconds(raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
