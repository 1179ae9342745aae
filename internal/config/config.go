package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"task-manager/internal/model"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config keeps runtime settings for the shell.
type Config struct {
	Storage          string        `env:"TASKMGR_STORAGE" envDefault:"json"`
	DataDir          string        `env:"TASKMGR_DATA_DIR" envDefault:"data"`
	DatabaseURL      string        `env:"TASKMGR_DATABASE_URL"`
	ReminderInterval time.Duration `env:"TASKMGR_REMINDER_INTERVAL" envDefault:"0s"`
	DigestAt         string        `env:"TASKMGR_DIGEST_AT"`
}

// Load reads an optional .env file, then environment variables with sane defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the process environment only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.DigestAt = strings.TrimSpace(cfg.DigestAt)

	if cfg.Storage == "" {
		cfg.Storage = StorageJSON
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = filepath.Join(cfg.DataDir, "taskmanager.db")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageJSON, StorageSQLite:
	default:
		return fmt.Errorf("%w: unknown storage %q, expected %s or %s", model.ErrValidation, c.Storage, StorageJSON, StorageSQLite)
	}
	if c.ReminderInterval < 0 {
		return fmt.Errorf("%w: reminder interval cannot be negative", model.ErrValidation)
	}
	return nil
}

func (c Config) TasksPath() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

func (c Config) CategoriesPath() string {
	return filepath.Join(c.DataDir, "categories.json")
}
