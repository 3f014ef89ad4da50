package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"task-management/internal/model"
)

// Config keeps runtime settings for the server, the bot and the CLI.
type Config struct {
	DatabaseURL     string
	HTTPAddr        string
	CORSOrigins     string
	TelegramToken   string
	ReportInterval  time.Duration
	ReportTime      string
	DefaultPageSize int
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:       strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		CORSOrigins:    strings.TrimSpace(os.Getenv("CORS_ORIGINS")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ReportInterval: parseInterval(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))),
		ReportTime:     strings.TrimSpace(os.Getenv("REPORT_TIME")),
	}

	if cfg.ReportTime != "" {
		if _, err := time.Parse("15:04", cfg.ReportTime); err != nil {
			return cfg, fmt.Errorf("REPORT_TIME must be HH:MM, got %q", cfg.ReportTime)
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "task_management.db"
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "http://localhost:3000"
	}

	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = 24 * time.Hour
	}

	pageSize, err := parsePageSize(strings.TrimSpace(os.Getenv("DEFAULT_PAGE_SIZE")))
	if err != nil {
		return cfg, err
	}
	cfg.DefaultPageSize = pageSize

	return cfg, nil
}

// BotEnabled reports whether a Telegram token was supplied.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parsePageSize(raw string) (int, error) {
	if raw == "" {
		return 20, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 || size > model.MaxPageSize {
		return 0, fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and %d, got %q", model.MaxPageSize, raw)
	}
	return size, nil
}
