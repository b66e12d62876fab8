package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationStatus is the schema version after a migration command.
type MigrationStatus struct {
	Version uint
	Dirty   bool
}

func newMigrator(dsn, migrationsPath string) (*migrate.Migrate, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dsn)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending up-migrations.
func RunMigrations(dsn, migrationsPath string) error {
	_, err := Migrate(dsn, migrationsPath, 0)
	return err
}

// Migrate moves the schema. steps == 0 applies every pending migration,
// a positive value applies that many and a negative value rolls back.
func Migrate(dsn, migrationsPath string, steps int) (MigrationStatus, error) {
	m, err := newMigrator(dsn, migrationsPath)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer m.Close()

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationStatus{}, fmt.Errorf("running migrations: %w", err)
	}

	st, err := version(m)
	if err != nil {
		return MigrationStatus{}, err
	}
	slog.Info("database migrations applied", "version", st.Version, "dirty", st.Dirty, "steps", steps)
	return st, nil
}

// MigrationVersion reports the current schema version without changing it.
func MigrationVersion(dsn, migrationsPath string) (MigrationStatus, error) {
	m, err := newMigrator(dsn, migrationsPath)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer m.Close()
	return version(m)
}

func version(m *migrate.Migrate) (MigrationStatus, error) {
	ver, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, nil
	}
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("reading migration version: %w", err)
	}
	return MigrationStatus{Version: ver, Dirty: dirty}, nil
}
