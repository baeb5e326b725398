// Package config loads the server configuration once at startup. Handlers
// never read the environment directly; everything they need is injected.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SMTP holds mail delivery settings for report export.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Config is the process-wide configuration.
type Config struct {
	Addr      string
	DBPath    string
	JWTSecret string
	SMTP      SMTP
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first if present (not fatal when missing, so the
// binary runs unchanged in containers that inject real env vars).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:      getenv("TILLPOINT_ADDR", ":8080"),
		DBPath:    getenv("TILLPOINT_DB", "tillpoint.sqlite3"),
		JWTSecret: os.Getenv("TILLPOINT_JWT_SECRET"),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("parsing SMTP_PORT: %w", err)
		}
		cfg.SMTP.Port = p
	} else {
		cfg.SMTP.Port = 587
	}

	return cfg, nil
}

// MailEnabled reports whether the SMTP settings are complete enough to send.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
