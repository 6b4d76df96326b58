package db

import (
	"errors"
	"fmt"

	"github.com/easyjob/apiserver/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// DefaultMigrationsURL is relative to the repository root.
const DefaultMigrationsURL = "file://internal/db/migrations"

// MigrateUp applies all pending up migrations.
func MigrateUp(cfg config.DatabaseConfig, migrationsURL string) error {
	return runMigrations(cfg, migrationsURL, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// MigrateDown rolls back the given number of migrations. steps <= 0
// rolls back everything.
func MigrateDown(cfg config.DatabaseConfig, migrationsURL string, steps int) error {
	return runMigrations(cfg, migrationsURL, func(m *migrate.Migrate) error {
		if steps <= 0 {
			return m.Down()
		}
		return m.Steps(-steps)
	})
}

func runMigrations(cfg config.DatabaseConfig, migrationsURL string, apply func(*migrate.Migrate) error) error {
	if migrationsURL == "" {
		migrationsURL = DefaultMigrationsURL
	}

	migrator, err := migrate.New(migrationsURL, DSN(cfg))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := apply(migrator); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate failed: %w", err)
	}
	return nil
}
