package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", cfg.JWTTTL)
	}
	if cfg.Google.CalendarID != "primary" {
		t.Fatalf("expected primary calendar, got %s", cfg.Google.CalendarID)
	}
	if cfg.Google.Enabled() {
		t.Fatalf("google calendar must be disabled without credentials")
	}
	if cfg.Location().String() != "Europe/Lisbon" {
		t.Fatalf("unexpected location %s", cfg.Location())
	}
}

func TestParseRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Parse()
	if err == nil {
		t.Fatalf("expected error for missing DATABASE_URL")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	if _, err := Parse(); err == nil {
		t.Fatalf("expected timezone error")
	}
}
