package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bryanwahyu/symptom-assist/internal/config"
	domain "github.com/bryanwahyu/symptom-assist/internal/domain/analysis"
	mysqlp "github.com/bryanwahyu/symptom-assist/internal/infra/db/mysql"
	"github.com/bryanwahyu/symptom-assist/internal/infra/db/postgres"
	"github.com/bryanwahyu/symptom-assist/internal/infra/db/sqlite"
	minioStore "github.com/bryanwahyu/symptom-assist/internal/infra/storage"
)

// openStore connects the configured backend and makes sure its schema exists
func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, error) {
	var (
		db     *sql.DB
		err    error
		ensure func(context.Context, *sql.DB) error
		newRep func(*sql.DB) domain.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		ensure = mysqlp.EnsureSchema
		newRep = func(db *sql.DB) domain.Repository { return mysqlp.NewAnalysisRepository(db) }
	case "postgres":
		db, err = postgres.Connect(ctx, cfg.PostgresDSN())
		ensure = postgres.EnsureSchema
		newRep = func(db *sql.DB) domain.Repository { return postgres.NewAnalysisRepository(db) }
	case "sqlite":
		db, err = sqlite.Connect(ctx, cfg.Database.Path)
		ensure = sqlite.EnsureSchema
		newRep = func(db *sql.DB) domain.Repository { return sqlite.NewAnalysisRepository(db) }
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s connect: %w", cfg.Database.Driver, err)
	}
	if err := ensure(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%s schema: %w", cfg.Database.Driver, err)
	}
	slog.Info("database connected", "driver", cfg.Database.Driver)
	return db, newRep(db), nil
}

// openArchive returns nil when MinIO is not configured
func openArchive(ctx context.Context, cfg *config.Config) (*minioStore.Store, error) {
	if !cfg.ArchiveEnabled() {
		return nil, nil
	}
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		return nil, fmt.Errorf("minio init: %w", err)
	}
	slog.Info("archive enabled", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.BucketName)
	return store, nil
}
