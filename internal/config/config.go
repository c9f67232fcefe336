package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Database
	DatabasePath string

	// Notifications
	SlackWebhookURL string

	// Optional remote snapshot sync
	SyncEndpoint string

	// Archive retention; 0 keeps history forever
	ArchiveRetentionDays int

	// Server
	Port        string
	Environment string
}

func Load() *Config {
	return &Config{
		DatabasePath:         getEnv("DATABASE_PATH", "ticklist.db"),
		SlackWebhookURL:      getEnv("SLACK_WEBHOOK_URL", ""),
		SyncEndpoint:         getEnv("SYNC_ENDPOINT", ""),
		ArchiveRetentionDays: getEnvInt("ARCHIVE_RETENTION_DAYS", 0),
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
