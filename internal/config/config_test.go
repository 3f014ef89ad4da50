package config

import (
	"strconv"
	"testing"
	"time"

	"task-management/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "HTTP_ADDR", "CORS_ORIGINS", "TELEGRAM_TOKEN", "REPORT_INTERVAL_HOURS", "REPORT_TIME", "DEFAULT_PAGE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "task_management.db" {
		t.Fatalf("expected default database, got %q", cfg.DatabaseURL)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.ReportInterval != 24*time.Hour {
		t.Fatalf("expected 24h interval, got %s", cfg.ReportInterval)
	}
	if cfg.DefaultPageSize != 20 {
		t.Fatalf("expected page size 20, got %d", cfg.DefaultPageSize)
	}
	if cfg.BotEnabled() {
		t.Fatalf("bot must be disabled without a token")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", " data/tasks.db ")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("REPORT_INTERVAL_HOURS", "6")
	t.Setenv("DEFAULT_PAGE_SIZE", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "data/tasks.db" {
		t.Fatalf("expected trimmed database url, got %q", cfg.DatabaseURL)
	}
	if cfg.ReportInterval != 6*time.Hour {
		t.Fatalf("expected 6h interval, got %s", cfg.ReportInterval)
	}
	if cfg.DefaultPageSize != 50 {
		t.Fatalf("expected page size 50, got %d", cfg.DefaultPageSize)
	}
	if !cfg.BotEnabled() {
		t.Fatalf("bot must be enabled with a token")
	}
}

func TestLoadRejectsBadPageSize(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for page size 0")
	}
}

func TestLoadPageSizeUpperBound(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", strconv.Itoa(model.MaxPageSize))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultPageSize != model.MaxPageSize {
		t.Fatalf("expected page size %d, got %d", model.MaxPageSize, cfg.DefaultPageSize)
	}

	t.Setenv("DEFAULT_PAGE_SIZE", strconv.Itoa(model.MaxPageSize+1))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error above the maximum page size")
	}
}

func TestLoadReportTime(t *testing.T) {
	t.Setenv("REPORT_TIME", " 08:30 ")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ReportTime != "08:30" {
		t.Fatalf("expected trimmed report time, got %q", cfg.ReportTime)
	}

	t.Setenv("REPORT_TIME", "8pm")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed report time")
	}
}

func TestParseIntervalIgnoresGarbage(t *testing.T) {
	if got := parseInterval("soon"); got != 0 {
		t.Fatalf("expected 0, got %s", got)
	}
	if got := parseInterval("-3"); got != 0 {
		t.Fatalf("expected 0 for negative, got %s", got)
	}
}
