package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Default file names inside the data directory.
const (
	catalogFileName = "foods.txt"
	logFileName     = "daily_logs.txt"
	profileFileName = "user_profile.txt"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Flat-file storage locations
	DataDir     string
	CatalogFile string
	LogFile     string
	ProfileFile string
}

// LoadConfig creates a new Config instance with values from the environment,
// reading a .env file first when one is present.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine outside development.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		DataDir:    getEnv("DATA_DIR", "."),
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	cfg.CatalogFile = filepath.Join(cfg.DataDir, catalogFileName)
	cfg.LogFile = filepath.Join(cfg.DataDir, logFileName)
	cfg.ProfileFile = filepath.Join(cfg.DataDir, profileFileName)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
