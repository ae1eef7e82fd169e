package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Symbols) == 0 {
		t.Error("expected default symbols, got none")
	}
	if cfg.News.Limit != 50 {
		t.Errorf("News.Limit = %d, want 50", cfg.News.Limit)
	}
	if cfg.Stock.Range != "3mo" {
		t.Errorf("Stock.Range = %q, want 3mo", cfg.Stock.Range)
	}
	if cfg.Store.LinkUnmatchedToAll {
		t.Error("Store.LinkUnmatchedToAll should default to false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
symbols: ["TSLA", "NVDA"]
db_path: /tmp/test.db
news:
  language: de
  limit: 10
store:
  link_unmatched_to_all: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[0] != "TSLA" {
		t.Errorf("Symbols = %v, want [TSLA NVDA]", cfg.Symbols)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.News.Language != "de" || cfg.News.Limit != 10 {
		t.Errorf("News = %+v", cfg.News)
	}
	if !cfg.Store.LinkUnmatchedToAll {
		t.Error("Store.LinkUnmatchedToAll should be true")
	}
	// unset keys keep their defaults
	if cfg.Stock.Interval != "1d" {
		t.Errorf("Stock.Interval = %q, want 1d", cfg.Stock.Interval)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MARKETMOOD_NEWS_API_KEY", "secret-key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.News.APIKey != "secret-key" {
		t.Errorf("News.APIKey = %q, want secret-key", cfg.News.APIKey)
	}
}
