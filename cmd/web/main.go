package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/archive"
	"github.com/AdamBeresnev/racquet-draw/internal/config"
	"github.com/AdamBeresnev/racquet-draw/internal/db"
	"github.com/AdamBeresnev/racquet-draw/internal/lock"
	"github.com/AdamBeresnev/racquet-draw/internal/logging"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
)

const (
	drawLockTTL     = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel})
	slog.SetDefault(logger)

	database, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	// Postgres deployments keep organizer sessions in memory.
	if cfg.DBDriver == db.DriverSQLite {
		sessionManager.Store = sqlite3store.New(database.DB)
	}

	var locker lock.Locker = lock.Nop{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		locker = lock.NewRedisLocker(client, drawLockTTL)
		logger.Info("draw lock backed by redis", "addr", cfg.RedisAddr)
	}

	var uploader archive.Uploader
	if cfg.Archive.Enabled() {
		uploader, err = archive.NewS3Uploader(context.Background(), archive.S3Config{
			Endpoint:        cfg.Archive.Endpoint,
			Region:          cfg.Archive.Region,
			Bucket:          cfg.Archive.Bucket,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		})
		if err != nil {
			logger.Error("failed to configure archive", "error", err)
			os.Exit(1)
		}
		logger.Info("archive export enabled", "bucket", cfg.Archive.Bucket)
	}

	app := newApplication(cfg, database, sessionManager, logger, locker, uploader)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", "http://localhost:"+cfg.Port)
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}
	logger.Info("server stopped")
}
