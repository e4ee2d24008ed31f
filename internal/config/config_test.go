package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "youvshr.db" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Session.Secret == "" || cfg.Session.Name != "youvshr_session" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Redis.Enabled {
		t.Fatal("expected redis to be disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DSN", "data/test.db")
	t.Setenv("SESSION_SECRET", "  from-env  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected listen addr :9090, got %q", cfg.ListenAddr)
	}
	if cfg.Database.DSN != "data/test.db" {
		t.Fatalf("expected dsn override, got %q", cfg.Database.DSN)
	}
	if cfg.Session.Secret != "from-env" {
		t.Fatalf("expected trimmed secret, got %q", cfg.Session.Secret)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	content := []byte("server:\n  mode: debug\nsite:\n  name: Test Site\nredis:\n  enabled: true\n  port: 6380\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.GinMode != "debug" {
		t.Fatalf("expected gin mode debug, got %q", cfg.GinMode)
	}
	if cfg.SiteName != "Test Site" {
		t.Fatalf("expected site name from file, got %q", cfg.SiteName)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Port != 6380 {
		t.Fatalf("expected redis settings from file, got %+v", cfg.Redis)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
