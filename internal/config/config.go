package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	DBDriver        string
	DatabaseURL     string
	MatchDuration   time.Duration
	OrganizerToken  string
	CORSOrigins     []string
	RedisAddr       string
	SessionLifetime time.Duration
	LogLevel        string
	LogFormat       string
	Archive         ArchiveConfig
}

// ArchiveConfig points at an S3-compatible bucket. Export is disabled when Bucket is empty.
type ArchiveConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// Load reads a .env file when present and then the environment, with defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return Config{
		Port:            envOrDefault(envPort, defaultPort),
		DBDriver:        envOrDefault(envDBDriver, defaultDBDriver),
		DatabaseURL:     envOrDefault(envDatabaseURL, defaultDatabaseURL),
		MatchDuration:   durationEnvOrDefault(envMatchDuration, defaultMatchDuration),
		OrganizerToken:  envOrDefault(envOrganizerToken, ""),
		CORSOrigins:     listEnvOrDefault(envCORSOrigins, []string{"*"}),
		RedisAddr:       envOrDefault(envRedisAddr, ""),
		SessionLifetime: durationEnvOrDefault(envSessionLifetime, defaultSessionLifetime),
		LogLevel:        envOrDefault(envLogLevel, "info"),
		LogFormat:       envOrDefault(envLogFormat, "text"),
		Archive: ArchiveConfig{
			Endpoint:        envOrDefault(envArchiveEndpoint, ""),
			Region:          envOrDefault(envArchiveRegion, "auto"),
			Bucket:          envOrDefault(envArchiveBucket, ""),
			AccessKeyID:     envOrDefault(envArchiveAccessKey, ""),
			SecretAccessKey: envOrDefault(envArchiveSecretKey, ""),
		},
	}
}

func listEnvOrDefault(key string, defaultValue []string) []string {
	raw := envOrDefault(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
