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
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.SalonTimezone != "Europe/London" {
		t.Errorf("SalonTimezone = %q", cfg.SalonTimezone)
	}
	if got := cfg.AllowedOrigins(); len(got) != 2 {
		t.Errorf("AllowedOrigins = %v", got)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":9090" || cfg.LedgerStore != "memory" || cfg.SessionStore != "memory" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.SessionTTL != 5*time.Minute || cfg.RateLimitPerMin != 10 {
		t.Errorf("unexpected ttl/rate %v %d", cfg.SessionTTL, cfg.RateLimitPerMin)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("LEDGER_STORE", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")

	for _, secret := range []string{"changeme", ""} {
		t.Setenv("JWT_SECRET", secret)
		if _, err := Load(); err == nil {
			t.Errorf("JWT_SECRET=%q: expected error", secret)
		}
	}

	t.Setenv("JWT_SECRET", "s3cr3t-from-vault")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production")
	}
}
