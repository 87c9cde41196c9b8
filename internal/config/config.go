// Package config loads settings from the YAML file, .env and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tgienger/todo/internal/db"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvServerURL  = "TODO_SERVER_URL"
	EnvListenAddr = "TODO_LISTEN_ADDR"
	EnvDBPath     = "TODO_DB_PATH"
	EnvLogLevel   = "TODO_LOG_LEVEL"
)

// Config holds client and server settings
type Config struct {
	ServerURL      string        `yaml:"server_url"`
	ListenAddr     string        `yaml:"listen_addr"`
	DBPath         string        `yaml:"db_path"`
	LogLevel       string        `yaml:"log_level"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the settings used when nothing overrides them
func Default() Config {
	dbPath, err := db.DefaultPath()
	if err != nil {
		dbPath = "todo.db"
	}
	return Config{
		ServerURL:  "http://127.0.0.1:5000",
		ListenAddr: "127.0.0.1:5000",
		DBPath:     dbPath,
		LogLevel:   "info",
	}
}

// DefaultPath returns the config file location under the XDG config directory
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not find the user's home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "todo", "config.yaml"), nil
}

// StateDir returns the directory for the client log
func StateDir() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "todo"), nil
}

// Load reads path, creating it with defaults on first run, then applies
// .env and environment overrides. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefault(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// a missing .env is fine
	_ = godotenv.Load()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Level parses LogLevel, falling back to info
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
