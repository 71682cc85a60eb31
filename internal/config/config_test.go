package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "@khabar")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxItemsPerRun != 3 {
		t.Errorf("MaxItemsPerRun = %d, want 3", cfg.MaxItemsPerRun)
	}
	if cfg.PerSourceLimit != 5 {
		t.Errorf("PerSourceLimit = %d, want 5", cfg.PerSourceLimit)
	}
	if cfg.InterPostDelay != 5*time.Second {
		t.Errorf("InterPostDelay = %v, want 5s", cfg.InterPostDelay)
	}
	if cfg.StoreBackend != "file" {
		t.Errorf("StoreBackend = %q, want file", cfg.StoreBackend)
	}
	if cfg.MinTitleLength != 10 || cfg.MaxTitleLength != 100 || cfg.MaxSummaryLength != 200 {
		t.Errorf("filter defaults wrong: %d/%d/%d", cfg.MinTitleLength, cfg.MaxTitleLength, cfg.MaxSummaryLength)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_NEWS_PER_POST", "7")
	t.Setenv("INTER_POST_DELAY_SECONDS", "10")
	t.Setenv("STORE_BACKEND", "redis")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxItemsPerRun != 7 {
		t.Errorf("MaxItemsPerRun = %d, want 7", cfg.MaxItemsPerRun)
	}
	if cfg.InterPostDelay != 10*time.Second {
		t.Errorf("InterPostDelay = %v, want 10s", cfg.InterPostDelay)
	}
	if cfg.StoreBackend != "redis" {
		t.Errorf("StoreBackend = %q, want redis", cfg.StoreBackend)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_ID", "@khabar")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without BOT_TOKEN")
	}
}

func TestValidateStoreBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres backend without DATABASE_URL")
	}
}
