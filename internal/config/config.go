package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver    string
	DatabaseURL string
	ServerPort  int

	CORSAllowedOrigins []string

	// Requests per second allowed per client IP, 0 disables limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

const (
	defaultDBDriver    = "sqlite3"
	defaultDatabaseURL = "brackets.db?_journal_mode=WAL&_foreign_keys=on"
	defaultServerPort  = 8080
	defaultRateRPS     = 10
	defaultRateBurst   = 20
)

// Load reads configuration from the environment. A .env file is loaded first
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:           getenv("DB_DRIVER", defaultDBDriver),
		DatabaseURL:        getenv("DATABASE_URL", defaultDatabaseURL),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "postgres" && os.Getenv("DATABASE_URL") == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := strconv.Atoi(getenv("SERVER_PORT", strconv.Itoa(defaultServerPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	cfg.RateLimitRPS, err = strconv.ParseFloat(getenv("RATE_LIMIT_RPS", strconv.Itoa(defaultRateRPS)), 64)
	if err != nil || cfg.RateLimitRPS < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS environment variable: %q", os.Getenv("RATE_LIMIT_RPS"))
	}

	cfg.RateLimitBurst, err = strconv.Atoi(getenv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateBurst)))
	if err != nil || cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST environment variable: %q", os.Getenv("RATE_LIMIT_BURST"))
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
