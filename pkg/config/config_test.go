package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.Holidays.BaseURL != "https://date.nager.at" {
		t.Errorf("Holidays.BaseURL = %s", cfg.Holidays.BaseURL)
	}
	if cfg.Holidays.Timeout != 10*time.Second {
		t.Errorf("Holidays.Timeout = %v, want 10s", cfg.Holidays.Timeout)
	}
	if cfg.OnThisDay.Timeout != 15*time.Second {
		t.Errorf("OnThisDay.Timeout = %v, want 15s", cfg.OnThisDay.Timeout)
	}
	if cfg.Payments.Currency != "USD" {
		t.Errorf("Payments.Currency = %s, want USD", cfg.Payments.Currency)
	}
	if cfg.Payments.PriceContext != 25 {
		t.Errorf("Payments.PriceContext = %d, want 25", cfg.Payments.PriceContext)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}
	if cfg.Database.URL != "" {
		t.Errorf("Database.URL = %s, want empty", cfg.Database.URL)
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("HOLIDAY_TIMEOUT", "3s")
	t.Setenv("PRICE_HOLIDAYS", "50")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %s, want 9999", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %s, want production", cfg.Env)
	}
	if cfg.Holidays.Timeout != 3*time.Second {
		t.Errorf("Holidays.Timeout = %v, want 3s", cfg.Holidays.Timeout)
	}
	if cfg.Payments.PriceHolidays != 50 {
		t.Errorf("PriceHolidays = %d, want 50", cfg.Payments.PriceHolidays)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis should be enabled")
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	os.Clearenv()
	t.Setenv("ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for unknown ENV")
	}
}

func TestGetEnvAsDurationFallback(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")

	got := getEnvAsDuration("SOME_DURATION", "5s")
	if got != 5*time.Second {
		t.Errorf("getEnvAsDuration() = %v, want 5s", got)
	}
}

func TestGetEnvAsInt64(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
	}{
		{"valid", "42", 42},
		{"invalid", "abc", 7},
		{"empty", "", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_INT64", tt.value)
			} else {
				os.Unsetenv("TEST_INT64")
			}
			if got := getEnvAsInt64("TEST_INT64", 7); got != tt.want {
				t.Errorf("getEnvAsInt64() = %d, want %d", got, tt.want)
			}
		})
	}
}
