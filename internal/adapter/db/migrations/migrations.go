// Package migrations holds the versioned SQL schema of the service and runs it
// with goose. The users table layout lives here, not in ORM struct tags.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// goose keeps its dialect, filesystem and logger in package globals.
var mu sync.Mutex

type target struct {
	dialect string
	dir     string
}

func targetFor(driver string) (target, error) {
	switch driver {
	case DriverPostgres:
		return target{dialect: "postgres", dir: "postgres"}, nil
	case DriverSQLite:
		return target{dialect: "sqlite3", dir: "sqlite"}, nil
	default:
		return target{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// gooseLogger routes goose output to zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func prepare(driver string, log *zap.Logger) (target, error) {
	t, err := targetFor(driver)
	if err != nil {
		return target{}, err
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{log: log.Named("goose").Sugar()})
	if err := goose.SetDialect(t.dialect); err != nil {
		return target{}, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return t, nil
}

// Up applies all pending migrations.
func Up(db *sql.DB, driver string, log *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	t, err := prepare(driver, log)
	if err != nil {
		return err
	}
	if err := goose.Up(db, t.dir); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(db *sql.DB, driver string, log *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	t, err := prepare(driver, log)
	if err != nil {
		return err
	}
	if err := goose.Down(db, t.dir); err != nil {
		return fmt.Errorf("failed to roll back goose migration: %w", err)
	}
	return nil
}

// Status logs the applied state of every migration.
func Status(db *sql.DB, driver string, log *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	t, err := prepare(driver, log)
	if err != nil {
		return err
	}
	if err := goose.Status(db, t.dir); err != nil {
		return fmt.Errorf("failed to read goose status: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func Version(db *sql.DB, driver string, log *zap.Logger) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	if _, err := prepare(driver, log); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
