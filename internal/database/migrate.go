package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Schema migrations ship inside the binary, so a deployment never
// depends on SQL files sitting next to it.
//
//go:embed migrations/*.sql
var schemaFS embed.FS

// Migrator applies the embedded schema migrations to one database.
type Migrator struct {
	engine *migrate.Migrate
}

// NewMigrator wires the embedded migrations to db. An empty dbName lets
// the driver resolve the connection's current database.
func NewMigrator(db *sql.DB, dbName string) (*Migrator, error) {
	source, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{DatabaseName: dbName})
	if err != nil {
		return nil, fmt.Errorf("prepare postgres driver: %w", err)
	}

	engine, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return nil, fmt.Errorf("assemble migrator: %w", err)
	}

	return &Migrator{engine: engine}, nil
}

// Up applies every pending migration. An already current schema is not
// an error.
func (m *Migrator) Up() error {
	if err := m.engine.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down rolls back a single migration step.
func (m *Migrator) Down() error {
	if err := m.engine.Steps(-1); err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	return nil
}

// Version reports the schema version and whether a failed migration
// left it dirty. A fresh database reports version zero.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.engine.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL. Only
// useful to clear a dirty flag after manual repair.
func (m *Migrator) Force(version int) error {
	if err := m.engine.Force(version); err != nil {
		return fmt.Errorf("force schema version: %w", err)
	}
	return nil
}

// Close releases the migration source and its database handle.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.engine.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
