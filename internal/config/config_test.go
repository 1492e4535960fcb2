package config

import (
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing JWT_SECRET to fail")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SETTINGS_REFRESH_INTERVAL", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Jobs.SettingsRefreshInterval != 30*time.Second {
		t.Errorf("expected 30s refresh interval, got %v", cfg.Jobs.SettingsRefreshInterval)
	}
	if cfg.Database.DBName != "affiliate" {
		t.Errorf("expected default db name, got %s", cfg.Database.DBName)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SETTINGS_REFRESH_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected malformed interval to fail")
	}
}
