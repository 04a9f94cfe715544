package database

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

	"github.com/trackrec/records-backend-go/internal/logging"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending migration for the driver's dialect.
func Migrate(conn *sql.DB, driver string) error {
	m, err := newMigrate(conn, driver)
	if err != nil {
		return err
	}
	// m.Close would close conn as well

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logging.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema up to date")
	return nil
}

// MigrationVersion returns the applied schema version
func MigrationVersion(conn *sql.DB, driver string) (uint, bool, error) {
	m, err := newMigrate(conn, driver)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func newMigrate(conn *sql.DB, driver string) (*migrate.Migrate, error) {
	var (
		instance database.Driver
		dir      string
		err      error
	)
	switch driver {
	case DriverPostgres:
		dir = "migrations/postgres"
		instance, err = postgres.WithInstance(conn, &postgres.Config{})
	case DriverSQLite, "":
		driver = DriverSQLite
		dir = "migrations/sqlite"
		instance, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migration driver: %w", driver, err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// migrateLogger routes golang-migrate output through zerolog
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logging.Debug().Str("component", "migrate").Msgf(format, v...)
}

func (migrateLogger) Verbose() bool { return false }
