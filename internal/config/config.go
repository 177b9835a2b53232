package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	Addr              string
	DbDsn             string
	LogLevel          string
	QueryTimeout      time.Duration
	DbMaxOpenConns    int
	DbMaxIdleConns    int
	AllowedOriginsRaw string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		Addr:              getEnv("APP_ADDR", ":4009"),
		DbDsn:             os.Getenv("DB_DSN"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		QueryTimeout:      time.Duration(getEnvInt("DB_QUERY_TIMEOUT_SECONDS", 5)) * time.Second,
		DbMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DbMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		AllowedOriginsRaw: getEnv("ALLOWED_ORIGINS", ""),
	}

	if cfg.DbDsn == "" {
		return cfg, errors.New("missing env: DB_DSN")
	}

	return cfg, nil
}

// AllowedOrigins parses the comma-separated origin list; empty means allow all.
func (c Config) AllowedOrigins() []string {
	origins := []string{}
	for _, origin := range strings.Split(c.AllowedOriginsRaw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
