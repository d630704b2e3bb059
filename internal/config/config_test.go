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
	if cfg.AppPort != 8080 {
		t.Fatalf("AppPort = %d, want 8080", cfg.AppPort)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("AccessTTL = %v, want 15m", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("RefreshTTL = %v, want 168h", cfg.RefreshTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STREAMTUBE_PORT", "9090")
	t.Setenv("STREAMTUBE_ACCESS_TTL", "5m")
	t.Setenv("STREAMTUBE_S3_BUCKET", "media")
	t.Setenv("STREAMTUBE_RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != 9090 {
		t.Fatalf("AppPort = %d, want 9090", cfg.AppPort)
	}
	if cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("AccessTTL = %v, want 5m", cfg.AccessTTL)
	}
	if cfg.ObjectStore.Bucket != "media" {
		t.Fatalf("Bucket = %q, want media", cfg.ObjectStore.Bucket)
	}
	if cfg.RateLimitPerSecond != 2.5 {
		t.Fatalf("RateLimitPerSecond = %v, want 2.5", cfg.RateLimitPerSecond)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("STREAMTUBE_PORT", "not-a-number")
	t.Setenv("STREAMTUBE_ACCESS_TTL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppPort != 8080 {
		t.Fatalf("AppPort = %d, want default 8080", cfg.AppPort)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("AccessTTL = %v, want default 15m", cfg.AccessTTL)
	}
}
