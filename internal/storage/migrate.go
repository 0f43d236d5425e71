package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/carson-networks/wallet-server/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// NewMigrator opens its own connection because closing the migrator closes the database.
func NewMigrator(backend config.StorageBackend, dsn string) (*migrate.Migrate, error) {
	var (
		driverName string
		dir        string
	)
	switch backend {
	case config.StorageBackendPostgres:
		driverName, dir = "postgres", "migrations/postgres"
	case config.StorageBackendSQLite:
		driverName, dir = "sqlite", "migrations/sqlite"
	default:
		return nil, fmt.Errorf("backend %q has no schema migrations", backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	var driver database.Driver
	if backend == config.StorageBackendPostgres {
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	} else {
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s driver: %w", driverName, err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations brings the schema up to date and reports the versions before and after.
func RunMigrations(backend config.StorageBackend, dsn string) (uint, uint, error) {
	m, err := NewMigrator(backend, dsn)
	if err != nil {
		return 0, 0, err
	}
	defer m.Close()

	preVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("read schema version: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return preVersion, preVersion, fmt.Errorf("run migrations: %w", err)
	}

	postVersion, _, err := m.Version()
	if err != nil {
		return preVersion, 0, fmt.Errorf("read schema version: %w", err)
	}
	return preVersion, postVersion, nil
}
