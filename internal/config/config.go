package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the web application
type Config struct {
	// Backend holds the library backend API configuration
	Backend BackendConfig `yaml:"backend"`

	// Server holds the HTTP listener configuration
	Server ServerConfig `yaml:"server"`

	// Database holds the gateway session store configuration
	Database DatabaseConfig `yaml:"database"`

	// Sessions holds gateway session lifecycle configuration
	Sessions SessionConfig `yaml:"sessions"`

	// Logging holds logging-related configuration
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig holds the upstream library API configuration
type BackendConfig struct {
	URL string `yaml:"url"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds the SQLite session store configuration
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// SessionConfig holds gateway session lifecycle configuration
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupSchedule string        `yaml:"cleanup_schedule"`
}

// UnmarshalYAML accepts the TTL as a duration string like "720h". Absent
// keys keep their current values.
func (s *SessionConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TTL             string `yaml:"ttl"`
		CleanupSchedule string `yaml:"cleanup_schedule"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.TTL != "" {
		ttl, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("invalid sessions.ttl: %w", err)
		}
		s.TTL = ttl
	}
	if raw.CleanupSchedule != "" {
		s.CleanupSchedule = raw.CleanupSchedule
	}
	return nil
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

const configFile = "libstack.yaml"

// Load loads configuration from an optional libstack.yaml file, then
// environment variables (env wins). .env files are loaded first and fail
// silently when absent.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		Backend:  BackendConfig{URL: "http://localhost:8080"},
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{URL: "libstack.sqlite"},
		Sessions: SessionConfig{
			TTL:             720 * time.Hour, // 30 days
			CleanupSchedule: "@hourly",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
		}
	}

	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.Sessions.TTL = ttl
	}
	if v := os.Getenv("SESSION_CLEANUP_SCHEDULE"); v != "" {
		cfg.Sessions.CleanupSchedule = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return cfg, nil
}
