package config

import (
	"errors"
	"os"
	"sync"
)

// Config carries the environment-driven settings shared by the CLIs.
type Config struct {
	Env        string
	LogLevel   string
	LedgerFile string
	ExportDir  string
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the configuration from the environment once and caches it.
func Load() *Config {
	once.Do(func() {
		cfg = &Config{
			Env:        getEnv("APP_ENV", "development"),
			LogLevel:   getEnv("LOG_LEVEL", "info"),
			LedgerFile: getEnv("LEDGER_FILE", "data/ledger.json"),
			ExportDir:  getEnv("EXPORT_DIR", "data"),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

// Validate rejects configurations the CLIs cannot run with.
func (c *Config) Validate() error {
	if c.LedgerFile == "" {
		return errors.New("LEDGER_FILE must not be empty")
	}
	if c.ExportDir == "" {
		return errors.New("EXPORT_DIR must not be empty")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
