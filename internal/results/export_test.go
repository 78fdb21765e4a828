package results

import (
	"context"
	"database/sql"
	"time"
)

// DB exposes the internal *sql.DB for test helpers in results_test.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// SetExecHook replaces the statement executor so tests can inject failures.
func (s *SQLiteStore) SetExecHook(fn func(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error)) {
	s.hooks.exec = fn
}

// SetClock replaces the created_at clock and returns a restore function.
func SetClock(fn func() time.Time) func() {
	orig := timeNow
	timeNow = fn
	return func() { timeNow = orig }
}

// SetOpenDB replaces the database opener and returns a restore function.
func SetOpenDB(fn func(driver, dsn string) (*sql.DB, error)) func() {
	orig := openDB
	openDB = fn
	return func() { openDB = orig }
}
