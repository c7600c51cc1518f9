package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is everything the CLI needs to reach the backend and find its
// session files. Values come from the environment (a .env file is loaded by
// the commands before this runs).
type Config struct {
	APIURL     string
	Timeout    time.Duration
	SessionDir string
}

func Load() *Config {
	cfg := &Config{
		APIURL:     getEnv("FOODAPP_API_URL", "http://localhost:8080"),
		Timeout:    time.Duration(getEnvInt("FOODAPP_TIMEOUT", 5)) * time.Second,
		SessionDir: getEnv("FOODAPP_SESSION_DIR", defaultSessionDir()),
	}
	return cfg
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".foodapp"
	}
	return filepath.Join(home, ".foodapp")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
