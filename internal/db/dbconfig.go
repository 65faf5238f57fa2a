package db

import (
	"errors"
	"os"
)

// Config holds the contacts database connection settings.
type Config struct {
	Driver string
	DSN    string // Data Source Name (connection string)
}

// Load reads the database configuration from the environment. The driver
// defaults to postgres.
func Load() (*Config, error) {
	cfg := &Config{
		Driver: os.Getenv("DB_DRIVER"),
		DSN:    os.Getenv("CONTACTS_DSN"),
	}

	if cfg.Driver == "" {
		cfg.Driver = "postgres"
	}

	if cfg.DSN == "" {
		return nil, errors.New("CONTACTS_DSN environment variable is not set")
	}

	return cfg, nil
}
