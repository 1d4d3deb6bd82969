package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("HEALTH_WINDOW_DAYS", "")
	t.Setenv("GENERATION_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreBackend != StoreBackendFile {
		t.Fatalf("expected file backend, got %q", cfg.StoreBackend)
	}
	if cfg.HealthWindowDays != 3 {
		t.Fatalf("expected 3 day window, got %d", cfg.HealthWindowDays)
	}
	if cfg.HighHeartRateThreshold != 70 {
		t.Fatalf("expected threshold 70, got %v", cfg.HighHeartRateThreshold)
	}
	if cfg.GenerationTimeout != 90*time.Second {
		t.Fatalf("unexpected generation timeout %v", cfg.GenerationTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "MONGO")
	t.Setenv("HEALTH_WINDOW_DAYS", "7")
	t.Setenv("USE_EMULATOR", "true")
	t.Setenv("SCHEDULE_WORKERS", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreBackend != StoreBackendMongo {
		t.Fatalf("expected mongo backend, got %q", cfg.StoreBackend)
	}
	if cfg.HealthWindowDays != 7 {
		t.Fatalf("expected 7 day window, got %d", cfg.HealthWindowDays)
	}
	if !cfg.UseEmulator {
		t.Fatalf("expected emulator flag")
	}
	if cfg.ScheduleWorkers != 4 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.ScheduleWorkers)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{StoreBackend: "s3", HealthWindowDays: 3, ScheduleWorkers: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}

	cfg.StoreBackend = StoreBackendCosmos
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for cosmos without endpoint")
	}
}
