package db

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// MigrateConfig defines the configuration needed for database migrations.
type MigrateConfig struct {
	DBURL string
}

// Migrate opens the connection pool and brings the posts schema up to
// date with the SQL files under db/migrations.
func Migrate(cfg MigrateConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := InitDB(ctx, cfg.DBURL); err != nil {
		return errors.Wrap(err, "failed to initialize database")
	}

	migrationsDir, err := filepath.Abs("db/migrations")
	if err != nil {
		return errors.Wrap(err, "failed to resolve migrations directory")
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}

	if err := goose.Up(DB, migrationsDir); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	log.Println("database migration check complete. All migrations are up to date")
	return nil
}
