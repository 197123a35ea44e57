package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// RunMigrations applies every pending kv_slots migration to the database
// at dbPath. It is safe to call on an up-to-date schema.
func RunMigrations(dbPath string) error {
	m, closeDB, err := newMigrator(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()
	defer m.Close()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return fmt.Errorf("apply kv_slots migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		slog.Debug("Slot schema migrated", "db_path", dbPath, "schema_version", version, "dirty", dirty)
	}
	return nil
}

// newMigrator uses its own connection because the migrate driver closes
// the handle it wraps.
func newMigrator(dbPath string) (*migrate.Migrate, func() error, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s for migration: %w", dbPath, err)
	}
	fail := func(step string, err error) (*migrate.Migrate, func() error, error) {
		db.Close()
		return nil, nil, fmt.Errorf("%s: %w", step, err)
	}

	dbDriver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fail("wrap sqlite for migrate", err)
	}
	source, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return fail("read embedded migrations", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", dbDriver)
	if err != nil {
		return fail("build migrator", err)
	}
	return m, db.Close, nil
}
