package main

import (
	"context"
	"fmt"
	"log/slog"

	"travelapi/internal/config"
	"travelapi/internal/database"
	"travelapi/internal/database/migration"
	"travelapi/internal/repository"
	"travelapi/internal/repository/memory"
	"travelapi/internal/repository/postgres"
	"travelapi/internal/storage"
)

// openStore picks PostgreSQL when DB_HOST is set and process memory otherwise.
func openStore(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (repository.Store, error) {
	if !cfg.Database.Enabled() {
		log.Warn("DB_HOST not set, using in-memory repositories; data is lost on restart")
		return memory.NewStore(), nil
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("using postgres repositories", "host", cfg.Database.Host, "db", cfg.Database.Name)
	return postgres.NewStore(db), nil
}

// openStorage picks MinIO when MINIO_ENDPOINT is set and the local upload directory otherwise.
func openStorage(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (storage.Storage, error) {
	if cfg.MinIO.Enabled() {
		s, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		log.Info("using minio storage", "endpoint", cfg.MinIO.Endpoint, "bucket", cfg.MinIO.Bucket)
		return s, nil
	}

	s, err := storage.NewLocal(cfg.Upload.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload directory: %w", err)
	}
	log.Info("using local storage", "dir", cfg.Upload.Dir)
	return s, nil
}
