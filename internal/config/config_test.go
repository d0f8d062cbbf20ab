package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.HTTP.Port)
	}
	if cfg.Cache.Timeout != 200*time.Millisecond {
		t.Errorf("cache timeout = %v, want 200ms", cfg.Cache.Timeout)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.JWT.SessionTTL != 24*time.Hour {
		t.Errorf("session ttl = %v, want 24h", cfg.JWT.SessionTTL)
	}
	if cfg.Journal.Retention != 7*24*time.Hour {
		t.Errorf("journal retention = %v, want 168h", cfg.Journal.Retention)
	}
	if cfg.Database.URL == "" {
		t.Error("database URL should be derived from parts when unset")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CACHE_TIMEOUT", "50ms")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("SESSION_TTL", "3600")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != "9000" {
		t.Errorf("port = %q, want 9000", cfg.HTTP.Port)
	}
	if cfg.Cache.Timeout != 50*time.Millisecond {
		t.Errorf("cache timeout = %v, want 50ms", cfg.Cache.Timeout)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("cache ttl = %v, want 30m", cfg.Cache.TTL)
	}
	if cfg.JWT.SessionTTL != time.Hour {
		t.Errorf("session ttl = %v, want 1h from bare seconds", cfg.JWT.SessionTTL)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/app?sslmode=disable" {
		t.Errorf("database URL = %q", cfg.Database.URL)
	}
	if cfg.Address() != "0.0.0.0:9000" {
		t.Errorf("address = %q", cfg.Address())
	}
}
