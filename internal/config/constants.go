package config

import "time"

const (
	envPort            = "PORT"
	envDBDriver        = "DB_DRIVER"
	envDatabaseURL     = "DATABASE_URL"
	envMatchDuration   = "MATCH_DURATION"
	envOrganizerToken  = "ORGANIZER_TOKEN"
	envCORSOrigins     = "CORS_ORIGINS"
	envRedisAddr       = "REDIS_ADDR"
	envSessionLifetime = "SESSION_LIFETIME"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"

	envArchiveEndpoint  = "ARCHIVE_ENDPOINT"
	envArchiveRegion    = "ARCHIVE_REGION"
	envArchiveBucket    = "ARCHIVE_BUCKET"
	envArchiveAccessKey = "ARCHIVE_ACCESS_KEY_ID"
	envArchiveSecretKey = "ARCHIVE_SECRET_ACCESS_KEY"
)

const (
	defaultPort            = "8080"
	defaultDBDriver        = "sqlite3"
	defaultDatabaseURL     = "racquet_draw.db?_journal_mode=WAL"
	defaultMatchDuration   = 90 * time.Minute
	defaultSessionLifetime = 24 * time.Hour
)
