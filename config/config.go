// Package config carries the fixed connection settings for the tutorial
// database. The defaults match docker-compose.yml; everything is supplied
// in-process so the demo runs with zero setup beyond `docker compose up`.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DatabaseConfig describes a single PostgreSQL endpoint.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ConnectionString renders the lib/pq keyword/value DSN.
func (dc *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dc.Host, dc.Port, dc.User, dc.Password, dc.DBName, dc.SSLMode,
	)
}

// URL renders the same endpoint as a postgres:// URL, the form expected by
// golang-migrate and most hosted-database providers.
func (dc *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		dc.User, dc.Password, dc.Host, dc.Port, dc.DBName, dc.SSLMode,
	)
}

// DefaultConfig returns the endpoint provisioned by docker-compose.yml.
func DefaultConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "usersdb",
		SSLMode:  "disable",
	}
}

// Load returns DefaultConfig with any PG_* environment overrides applied.
// A .env file in the working directory is read first if present; a missing
// file is not an error.
func Load() *DatabaseConfig {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("PG_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("PG_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("PG_DBNAME"); v != "" {
		cfg.DBName = v
	}
	if v := os.Getenv("PG_SSLMODE"); v != "" {
		cfg.SSLMode = v
	}
	return cfg
}
