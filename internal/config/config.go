package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string
	CORSOrigins []string

	// Catalog
	DataDir     string
	DatabaseURL string
	SeedOnStart bool

	// Population cache
	RedisURL           string
	PopulationCacheTTL time.Duration
	PopulationMinutes  float64

	// Search
	SearchDebounce time.Duration
	SearchLimit    int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		CORSOrigins:        getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		DataDir:            getEnv("DATA_DIR", "./data"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SeedOnStart:        getEnvBool("SEED_ON_START", false),
		RedisURL:           getEnv("REDIS_URL", ""),
		PopulationCacheTTL: time.Duration(getEnvInt("POPULATION_CACHE_TTL_SECONDS", 600)) * time.Second,
		PopulationMinutes:  float64(getEnvInt("POPULATION_MIN_MINUTES", 90)),
		SearchDebounce:     time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
		SearchLimit:        getEnvInt("SEARCH_LIMIT", 20),
	}

	if cfg.DataDir == "" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("one of DATA_DIR or DATABASE_URL is required")
	}
	if cfg.SeedOnStart && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("SEED_ON_START requires DATABASE_URL")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
