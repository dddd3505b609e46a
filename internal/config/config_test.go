package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Database.Path != "agristock.sqlite3" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "agristock.sqlite3")
	}
	if cfg.Notify.KafkaTopic != "agristock.changes" {
		t.Errorf("Notify.KafkaTopic = %q, want %q", cfg.Notify.KafkaTopic, "agristock.changes")
	}
	if len(cfg.Notify.KafkaBrokers) != 0 {
		t.Errorf("Kafka should be disabled by default, got brokers %v", cfg.Notify.KafkaBrokers)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9000"

[auth]
jwt_secret = "s3cret"

[notify]
kafka_brokers = ["localhost:9092"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9000")
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("Auth.JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "s3cret")
	}
	if len(cfg.Notify.KafkaBrokers) != 1 || cfg.Notify.KafkaBrokers[0] != "localhost:9092" {
		t.Errorf("Notify.KafkaBrokers = %v", cfg.Notify.KafkaBrokers)
	}
	// Unset sections keep defaults.
	if cfg.Database.Path != "agristock.sqlite3" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
	if cfg.Notify.KafkaTopic != "agristock.changes" {
		t.Errorf("Notify.KafkaTopic = %q, want default", cfg.Notify.KafkaTopic)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
