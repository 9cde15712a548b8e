// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config holds everything main needs to build the server.
type Config struct {
	Port          string
	StoreDriver   string
	MongoURI      string
	MongoDB       string
	DatabasePath  string
	BcryptCost    int
	CORSOrigins   []string
	AuthRateLimit int // requests per minute per IP; 0 disables
	LogLevel      slog.Level
}

// Load reads the given .env files (".env" when none are named) and then
// builds a Config from the environment. Missing files are ignored, and
// variables already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
		slog.Debug("loaded env file", "path", f)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:         envOrDefault("PORT", "5000"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      envOrDefault("MONGO_DB", "shelfmate"),
		DatabasePath: envOrDefault("DATABASE_PATH", "shelfmate.db"),
		CORSOrigins:  splitOrigins(envOrDefault("CORS_ORIGIN", "*")),
	}

	cfg.StoreDriver = os.Getenv("STORE_DRIVER")
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = DriverSQLite
		if cfg.MongoURI != "" {
			cfg.StoreDriver = DriverMongoDB
		}
	}
	switch cfg.StoreDriver {
	case DriverSQLite:
	case DriverMongoDB:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGO_URI is required when STORE_DRIVER=mongodb")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, DriverSQLite, DriverMongoDB)
	}

	cost, err := intFromEnv("BCRYPT_COST", 10)
	if err != nil {
		return Config{}, err
	}
	if cost < 4 || cost > 14 {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cost)
	}
	cfg.BcryptCost = cost

	limit, err := intFromEnv("AUTH_RATE_LIMIT", 30)
	if err != nil {
		return Config{}, err
	}
	if limit < 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT must not be negative, got %d", limit)
	}
	cfg.AuthRateLimit = limit

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func intFromEnv(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// splitOrigins parses a comma-separated origin list, trimming blanks and
// trailing slashes.
func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
