package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "tickers:\n  - AAPL\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LookbackDays != 30 {
		t.Errorf("Expected lookback_days default 30, got %d", cfg.LookbackDays)
	}
	if cfg.News.PageSize != 5 {
		t.Errorf("Expected page_size default 5, got %d", cfg.News.PageSize)
	}
	if cfg.News.SortBy != "relevancy" {
		t.Errorf("Expected sort_by default relevancy, got %s", cfg.News.SortBy)
	}
	if cfg.Prices.Provider != "STOOQ" {
		t.Errorf("Expected prices provider default STOOQ, got %s", cfg.Prices.Provider)
	}
	if len(cfg.Indices) != 5 {
		t.Errorf("Expected 5 default indices, got %d", len(cfg.Indices))
	}
	if cfg.Refresh.At != "09:00" {
		t.Errorf("Expected refresh default 09:00, got %s", cfg.Refresh.At)
	}
}

func TestLoadConfigInvertedDateRange(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"tickers:",
		"  - AAPL",
		"start_date: \"2026-08-20\"",
		"end_date: \"2026-08-01\"",
	}, "\n"))

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected inverted date range to be rejected")
	}
	if !strings.Contains(err.Error(), "before start") {
		t.Errorf("Expected date range error, got: %v", err)
	}
}

func TestLoadConfigInvalidProvider(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"tickers:",
		"  - AAPL",
		"prices:",
		"  provider: MAGIC",
	}, "\n"))

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected invalid provider to be rejected")
	}
}

func TestDateRangeExplicit(t *testing.T) {
	cfg := &Config{StartDate: "2026-08-01", EndDate: "2026-08-20"}

	start, end, err := cfg.DateRange()
	if err != nil {
		t.Fatalf("DateRange failed: %v", err)
	}
	if string(start) != "2026-08-01" || string(end) != "2026-08-20" {
		t.Errorf("Unexpected range: %s..%s", start, end)
	}
}

func TestDateRangeLookback(t *testing.T) {
	cfg := &Config{LookbackDays: 30}

	start, end, err := cfg.DateRange()
	if err != nil {
		t.Fatalf("DateRange failed: %v", err)
	}
	if !start.Before(end) {
		t.Errorf("Expected start %s before end %s", start, end)
	}
}

func TestNewsAPIKeyMissingEnvIsValid(t *testing.T) {
	cfg := &Config{}
	cfg.News.APIKeyEnv = "TEST_NEWS_KEY_THAT_DOES_NOT_EXIST"

	if key := cfg.NewsAPIKey(); key != "" {
		t.Errorf("Expected empty key, got %q", key)
	}
}
