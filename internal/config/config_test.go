package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("port = %d", cfg.ServerPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("ttl = %v", cfg.TokenTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("sweep = %v", cfg.SweepInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("port = %d", cfg.ServerPort)
	}
	if cfg.DatabasePath != "/tmp/other.db" {
		t.Errorf("db path = %q", cfg.DatabasePath)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("sweep = %v", cfg.SweepInterval)
	}
}

func TestLoadConfigFileAndPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "server_port = 7070\ndatabase_path = \"/data/file.db\"\nsweep_interval = \"90s\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "6060") // env beats file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != 6060 {
		t.Errorf("env should beat file, port = %d", cfg.ServerPort)
	}
	if cfg.DatabasePath != "/data/file.db" {
		t.Errorf("db path = %q", cfg.DatabasePath)
	}
	if cfg.SweepInterval != 90*time.Second {
		t.Errorf("sweep = %v", cfg.SweepInterval)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("invalid port should fail")
	}
}
