package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS preferences (
		pref_key   VARCHAR(64) NOT NULL PRIMARY KEY,
		pref_value TEXT        NOT NULL
	)`

var upsert = map[string]string{
	DriverMySQL: `
		INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE pref_value = VALUES(pref_value)`,
	DriverSQLite: `
		INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
		ON CONFLICT(pref_key) DO UPDATE SET pref_value = excluded.pref_value`,
}

// SQL keeps preferences in a single key/value table on MySQL or SQLite.
type SQL struct {
	db     *sql.DB
	upsert string
}

func Open(driver, dsn string) (*SQL, error) {
	const op = "storage.prefs.Open"

	stmt, ok := upsert[driver]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported driver %q", op, driver)
	}

	if driver == DriverSQLite && dsn != "" && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%s: create dirs: %w", op, err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open %s: %w", op, driver, err)
	}

	if driver == DriverSQLite {
		// one connection keeps ":memory:" databases shared and writes serialized
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: create preferences table: %w", op, err)
	}

	return &SQL{db: db, upsert: stmt}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.prefs.Get"

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT pref_value FROM preferences WHERE pref_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: key %q: %w", op, key, err)
	}

	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	const op = "storage.prefs.Set"

	if _, err := s.db.ExecContext(ctx, s.upsert, key, value); err != nil {
		return fmt.Errorf("%s: key %q: %w", op, key, err)
	}

	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	const op = "storage.prefs.Delete"

	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE pref_key = ?`, key); err != nil {
		return fmt.Errorf("%s: key %q: %w", op, key, err)
	}

	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
