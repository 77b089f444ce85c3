package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textfind/internal/descriptor"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer; this also keeps ":memory:"
	// databases on one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Open creates the parent directory of dbPath if needed and opens the
// history database there. ":memory:" opens a private in-memory database.
func Open(dbPath string) (*SQLiteStorage, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return NewSQLiteStorage(dbPath)
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) CreateRun(ctx context.Context, run *Run) error {
	return createRun(ctx, t.tx, run)
}

func (t *sqliteTx) AddDescriptors(ctx context.Context, runID string, descriptors []string) error {
	return addDescriptors(ctx, t.tx, runID, descriptors)
}

// Run operations

// createRun inserts run, assigning an ID and CreatedAt
func createRun(ctx context.Context, q querier, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	patterns, err := json.Marshal(nonNil(run.Patterns))
	if err != nil {
		return fmt.Errorf("failed to encode patterns: %w", err)
	}
	paths, err := json.Marshal(nonNil(run.Paths))
	if err != nil {
		return fmt.Errorf("failed to encode paths: %w", err)
	}

	var runErr sql.NullString
	if run.Error != "" {
		runErr = sql.NullString{String: run.Error, Valid: true}
	}

	var exists int
	err = q.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", run.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("run %s: %w", run.ID, ErrAlreadyExists)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check run: %w", err)
	}

	query := `
		INSERT INTO runs (id, patterns, paths, workers, matches, failed, error,
		                  duration_ns, started_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err = q.ExecContext(ctx, query,
		run.ID, string(patterns), string(paths), run.Workers, run.Matches,
		run.Failed, runErr, run.Duration.Nanoseconds(), run.StartedAt, now)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	run.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateRun(ctx context.Context, run *Run) error {
	return createRun(ctx, s.db, run)
}

const runColumns = `id, patterns, paths, workers, matches, failed, error, duration_ns, started_at, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		patterns   string
		paths      string
		runErr     sql.NullString
		durationNs int64
	)
	err := row.Scan(&run.ID, &patterns, &paths, &run.Workers, &run.Matches,
		&run.Failed, &runErr, &durationNs, &run.StartedAt, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(patterns), &run.Patterns); err != nil {
		return nil, fmt.Errorf("failed to decode patterns of run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(paths), &run.Paths); err != nil {
		return nil, fmt.Errorf("failed to decode paths of run %s: %w", run.ID, err)
	}
	run.Error = runErr.String
	run.Duration = time.Duration(durationNs)
	return &run, nil
}

// GetRun returns the run with the given ID
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, created_at DESC LIMIT ?"
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its descriptors
func (s *SQLiteStorage) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Descriptor operations

// addDescriptors appends descriptors after any already stored for runID
func addDescriptors(ctx context.Context, q querier, runID string, descriptors []string) error {
	if len(descriptors) == 0 {
		return nil
	}

	var next int
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq) + 1, 0) FROM run_descriptors WHERE run_id = ?", runID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read descriptor sequence: %w", err)
	}

	query := `INSERT INTO run_descriptors (run_id, seq, path, descriptor) VALUES (?, ?, ?, ?)`
	for i, d := range descriptors {
		path := descriptor.Decode(d)[descriptor.FieldPath]
		if _, err := q.ExecContext(ctx, query, runID, next+i, path, d); err != nil {
			return fmt.Errorf("failed to store descriptor: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStorage) AddDescriptors(ctx context.Context, runID string, descriptors []string) error {
	return addDescriptors(ctx, s.db, runID, descriptors)
}

// ListDescriptors returns the descriptors of a run in result order
func (s *SQLiteStorage) ListDescriptors(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT descriptor FROM run_descriptors WHERE run_id = ? ORDER BY seq", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list descriptors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecordRun stores run and its descriptors in one transaction
func (s *SQLiteStorage) RecordRun(ctx context.Context, run *Run, descriptors []string) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if run.Matches == 0 {
		run.Matches = len(descriptors)
	}
	if err := tx.CreateRun(ctx, run); err != nil {
		return err
	}
	if err := tx.AddDescriptors(ctx, run.ID, descriptors); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
