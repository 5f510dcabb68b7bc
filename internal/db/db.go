package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/memorymatch/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DB struct {
	*sql.DB
}

// Open connects to the SQLite database at path and applies pending
// migrations.
func Open(path string) (*DB, error) {
	log := logger.Default().WithPrefix("db")

	dsn := path
	if !strings.Contains(path, "?") {
		dsn += "?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"
	}
	log.Info("opening database: %s", path)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB}

	log.Debug("applying migrations")
	if err := Migrate(context.Background(), sqlDB); err != nil {
		log.Error("failed to apply migrations: %v", err)
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Migrations lists the embedded migration files in apply order.
func Migrations() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Migrate applies pending migrations to db.
func (db *DB) Migrate(ctx context.Context) error {
	return Migrate(ctx, db.DB)
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	versions, err := Migrations()
	if err != nil {
		return err
	}

	for _, version := range versions {
		applied, err := isMigrationApplied(ctx, db, version)
		if err != nil {
			return err
		}
		if applied {
			log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		log.Info("applying migration: %s", version)
		err = Tx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version)
			return err
		})
		if err != nil {
			log.Error("migration %s failed: %v", version, err)
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
	}
	return nil
}

func isMigrationApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_migrations WHERE version = ?`, version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Tx runs fn inside a transaction, rolling back if fn fails.
func Tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}
