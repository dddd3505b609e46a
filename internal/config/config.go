// Package config loads the TOML server configuration.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Notify   NotifyConfig   `toml:"notify"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig configures the staff token boundary.
type AuthConfig struct {
	// JWTSecret signs staff tokens. Auto-generated at startup if empty,
	// which invalidates outstanding tokens on restart.
	JWTSecret string `toml:"jwt_secret"`
}

// NotifyConfig configures the optional off-process event sink. The
// in-process bus always runs; Kafka publishing is enabled only when
// brokers are set.
type NotifyConfig struct {
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "agristock.sqlite3"},
		Notify:   NotifyConfig{KafkaTopic: "agristock.changes"},
	}
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}
