package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const defaultSQLitePath = "./database.db"

type Config struct {
	HTTPAddr    string
	SQLitePath  string
	JWTSecret   string
	LogLevel    log.Lvl
	CORSOrigins []string
}

// Load reads an optional .env file and then the process environment.
// Missing and invalid variables are reported together.
func Load(envFiles ...string) (Config, error) {
	if err := LoadEnvFiles(envFiles...); err != nil {
		return Config{}, err
	}
	return FromEnv(os.Getenv)
}

// LoadEnvFiles copies the given .env files (default ".env") into the process
// environment without overriding it. Absent files are skipped.
func LoadEnvFiles(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// SQLitePath returns AGENDA_SQLITE_PATH or the default database location.
func SQLitePath() string {
	if path := strings.TrimSpace(os.Getenv("AGENDA_SQLITE_PATH")); path != "" {
		return path
	}
	return defaultSQLitePath
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPAddr:    ":6060",
		SQLitePath:  defaultSQLitePath,
		LogLevel:    log.INFO,
		CORSOrigins: []string{"*"},
	}

	var missing, invalid []string

	if addr := strings.TrimSpace(getenv("AGENDA_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}

	if path := strings.TrimSpace(getenv("AGENDA_SQLITE_PATH")); path != "" {
		cfg.SQLitePath = path
	}

	if secret := strings.TrimSpace(getenv("AGENDA_JWT_SECRET")); secret == "" {
		missing = append(missing, "AGENDA_JWT_SECRET")
	} else {
		cfg.JWTSecret = secret
	}

	if level := strings.TrimSpace(getenv("AGENDA_LOG_LEVEL")); level != "" {
		lvl, ok := parseLevel(level)
		if !ok {
			invalid = append(invalid, "AGENDA_LOG_LEVEL")
		} else {
			cfg.LogLevel = lvl
		}
	}

	if origins := strings.TrimSpace(getenv("AGENDA_CORS_ORIGINS")); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func parseLevel(level string) (log.Lvl, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG, true
	case "info":
		return log.INFO, true
	case "warn":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	}
	return 0, false
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
