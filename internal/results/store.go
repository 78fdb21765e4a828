// Package results persists finished assessments in SQLite.
//
// One row is kept per employee number. Response maps, trait profiles and
// badges are stored as JSON text columns.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/piyushranjan2301/ITC27/internal/scoring"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow stamps created_at. Tests replace it.
var timeNow = time.Now

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02 15:04:05.000000000"

var (
	// ErrDuplicate is returned when a result for the same PNo already exists.
	ErrDuplicate = errors.New("result already exists for this employee")
	// ErrNotFound is returned when no result matches.
	ErrNotFound = errors.New("result not found")
)

// Store is the persistence gateway for scored results.
type Store interface {
	PriorAnsweredCount(ctx context.Context) (int, error)
	Save(ctx context.Context, r *scoring.Result) error
	FetchByIdentity(ctx context.Context, pNo string) (*scoring.Result, error)
	List(ctx context.Context) ([]scoring.Result, error)
	Delete(ctx context.Context, pNo string) error
	Wipe(ctx context.Context) (int64, error)
	Close() error
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir string
	DBFile  string
}

// DefaultConfig stores results in ~/.itc27/results.db.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".itc27"),
		DBFile:  "results.db",
	}
}

// ─── SQLiteStore ─────────────────────────────────────────────────────────────

// SQLiteStore is the Store backed by modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	hooks storeHooks
}

var _ Store = (*SQLiteStore)(nil)

type storeHooks struct {
	exec func(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) execHook(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(ctx, s.db, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

// New creates the data directory if needed, opens SQLite in WAL mode and
// ensures the schema exists.
func New(cfg Config) (*SQLiteStore, error) {
	if cfg.DBFile == "" {
		cfg.DBFile = DefaultConfig().DBFile
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("results: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, cfg.DBFile)
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("results: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("results: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: migration: %w", err)
	}
	return s, nil
}

// Path is the database file location.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			employee_pno         TEXT    NOT NULL UNIQUE,
			employee_name        TEXT    NOT NULL DEFAULT '',
			department           TEXT    NOT NULL DEFAULT '',
			designation          TEXT    NOT NULL DEFAULT '',
			role                 TEXT    NOT NULL DEFAULT '',
			phone_number         TEXT    NOT NULL DEFAULT '',
			location             TEXT    NOT NULL DEFAULT '',
			login_at             TEXT    NOT NULL DEFAULT '',
			engagement_score     REAL    NOT NULL,
			engagement_level     TEXT    NOT NULL,
			behavioral_profile   TEXT    NOT NULL,
			sjt_alignment        TEXT    NOT NULL,
			category             TEXT    NOT NULL,
			total_points         INTEGER NOT NULL,
			badges               TEXT    NOT NULL,
			engagement_responses TEXT    NOT NULL,
			behavioral_responses TEXT    NOT NULL,
			sjt_responses        TEXT    NOT NULL,
			answered_count       INTEGER NOT NULL,
			feedback             TEXT    NOT NULL DEFAULT '',
			elapsed_seconds      INTEGER NOT NULL DEFAULT 0,
			created_at           TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_results_points ON results(total_points DESC, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Operations ──────────────────────────────────────────────────────────────

const selectColumns = `id, employee_pno, employee_name, department, designation, role,
	phone_number, location, login_at, engagement_score, engagement_level,
	behavioral_profile, sjt_alignment, category, total_points, badges,
	engagement_responses, behavioral_responses, sjt_responses, feedback,
	elapsed_seconds, created_at`

// PriorAnsweredCount is the number of questions answered across every stored
// result.
func (s *SQLiteStore) PriorAnsweredCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(answered_count), 0) FROM results`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("results: answered count: %w", err)
	}
	return n, nil
}

// Save inserts a result and fills its ID and CreatedAt. A second result for
// the same PNo fails with ErrDuplicate.
func (s *SQLiteStore) Save(ctx context.Context, r *scoring.Result) error {
	if r == nil {
		return fmt.Errorf("results: save: nil result")
	}
	pno := strings.TrimSpace(r.Identity.PNo)
	if pno == "" {
		return fmt.Errorf("results: save: %w", scoring.ErrMissingPNo)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = timeNow()
	}
	created = created.UTC()

	cols, err := encodeColumns(r)
	if err != nil {
		return fmt.Errorf("results: save %s: %w", pno, err)
	}

	res, err := s.execHook(ctx, `
		INSERT INTO results (
			employee_pno, employee_name, department, designation, role,
			phone_number, location, login_at, engagement_score, engagement_level,
			behavioral_profile, sjt_alignment, category, total_points, badges,
			engagement_responses, behavioral_responses, sjt_responses, answered_count,
			feedback, elapsed_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pno, r.Identity.EmployeeName, r.Identity.Department, r.Identity.Designation, r.Identity.Role,
		r.Identity.PhoneNumber, r.Identity.Location, formatTime(r.Identity.Timestamp),
		r.EngagementScore, string(r.EngagementLevel),
		cols.profile, cols.alignment, r.Category, r.TotalPoints, cols.badges,
		cols.engagement, cols.behavioral, cols.sjt, r.Responses.Count(),
		r.Feedback, r.ElapsedSeconds, created.Format(timeLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("results: save %s: %w", pno, ErrDuplicate)
		}
		return fmt.Errorf("results: save %s: %w", pno, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("results: save %s: last insert id: %w", pno, err)
	}
	r.ID = id
	r.CreatedAt = created
	return nil
}

// FetchByIdentity returns the stored result for pNo, or nil when there is
// none.
func (s *SQLiteStore) FetchByIdentity(ctx context.Context, pNo string) (*scoring.Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM results WHERE employee_pno = ?`, strings.TrimSpace(pNo))
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("results: fetch %s: %w", pNo, err)
	}
	return r, nil
}

// List returns every result, highest points first, newest first on ties.
func (s *SQLiteStore) List(ctx context.Context) ([]scoring.Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM results ORDER BY total_points DESC, created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("results: list: %w", err)
	}
	defer rows.Close()

	var out []scoring.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("results: list: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("results: list: %w", err)
	}
	return out, nil
}

// Delete removes the result for pNo.
func (s *SQLiteStore) Delete(ctx context.Context, pNo string) error {
	res, err := s.execHook(ctx, `DELETE FROM results WHERE employee_pno = ?`, strings.TrimSpace(pNo))
	if err != nil {
		return fmt.Errorf("results: delete %s: %w", pNo, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("results: delete %s: %w", pNo, err)
	}
	if n == 0 {
		return fmt.Errorf("results: delete %s: %w", pNo, ErrNotFound)
	}
	return nil
}

// Wipe removes every result and returns how many were deleted.
func (s *SQLiteStore) Wipe(ctx context.Context) (int64, error) {
	res, err := s.execHook(ctx, `DELETE FROM results`)
	if err != nil {
		return 0, fmt.Errorf("results: wipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("results: wipe: %w", err)
	}
	return n, nil
}

// ─── Encoding ────────────────────────────────────────────────────────────────

type jsonColumns struct {
	profile, alignment, badges  string
	engagement, behavioral, sjt string
}

func encodeColumns(r *scoring.Result) (jsonColumns, error) {
	var c jsonColumns
	fields := []struct {
		dst *string
		v   any
	}{
		{&c.profile, nonNilMap(r.BehavioralProfile)},
		{&c.alignment, nonNilMap(r.SJTAlignment)},
		{&c.badges, nonNilSlice(r.Badges)},
		{&c.engagement, r.Responses.Engagement},
		{&c.behavioral, r.Responses.Behavioral},
		{&c.sjt, r.Responses.SJT},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return c, fmt.Errorf("encode column: %w", err)
		}
		*f.dst = string(b)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (*scoring.Result, error) {
	var (
		r                           scoring.Result
		level, loginAt, createdAt   string
		profile, alignment, badges  string
		engagement, behavioral, sjt string
	)
	err := sc.Scan(
		&r.ID, &r.Identity.PNo, &r.Identity.EmployeeName, &r.Identity.Department,
		&r.Identity.Designation, &r.Identity.Role, &r.Identity.PhoneNumber,
		&r.Identity.Location, &loginAt, &r.EngagementScore, &level,
		&profile, &alignment, &r.Category, &r.TotalPoints, &badges,
		&engagement, &behavioral, &sjt, &r.Feedback, &r.ElapsedSeconds, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	r.EngagementLevel = scoring.Level(level)
	r.Identity.Timestamp = parseTime(loginAt)
	r.CreatedAt = parseTime(createdAt)

	r.Responses = scoring.NewResponses()
	fields := []struct {
		src string
		dst any
	}{
		{profile, &r.BehavioralProfile},
		{alignment, &r.SJTAlignment},
		{badges, &r.Badges},
		{engagement, &r.Responses.Engagement},
		{behavioral, &r.Responses.Behavioral},
		{sjt, &r.Responses.SJT},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return nil, fmt.Errorf("decode column: %w", err)
		}
	}
	// A null column decodes to a nil map.
	r.Responses = r.Responses.Clone()
	return &r, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nonNilMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
