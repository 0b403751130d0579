package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the embedded SQLite database owning the identities and
// commits tables. One pipeline run owns the store for its whole duration;
// no concurrent writers are expected.
type Store struct {
	db     *sql.DB
	path   string
	logger *logrus.Logger
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, path: path, logger: logger}, nil
}

// DB exposes the underlying handle for read-only query layers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ResetSchema drops any existing tables and recreates the schema from the
// embedded migrations, giving each run a clean slate. Destructive: every
// prior row is gone afterwards.
func (s *Store) ResetSchema(ctx context.Context) error {
	drops := []string{
		"DROP TABLE IF EXISTS commits",
		"DROP TABLE IF EXISTS identities",
		"DROP TABLE IF EXISTS goose_db_version",
	}
	for _, stmt := range drops {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.logger.WithField("path", s.path).Debug("Recreated database schema")
	return nil
}
