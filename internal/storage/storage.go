package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting and querying search history
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	DeleteRun(ctx context.Context, id string) error

	// Descriptor operations
	AddDescriptors(ctx context.Context, runID string, descriptors []string) error
	ListDescriptors(ctx context.Context, runID string) ([]string, error)

	// RecordRun stores run and its descriptors atomically
	RecordRun(ctx context.Context, run *Run, descriptors []string) error

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error

	CreateRun(ctx context.Context, run *Run) error
	AddDescriptors(ctx context.Context, runID string, descriptors []string) error
}

// Run is one completed multi-file search
type Run struct {
	ID        string // UUID, assigned by CreateRun when empty
	Patterns  []string
	Paths     []string
	Workers   int
	Matches   int
	Failed    bool
	Error     string // Failure message when Failed is set
	Duration  time.Duration
	StartedAt time.Time
	CreatedAt time.Time
}

// Files returns the number of paths the run searched.
func (r *Run) Files() int {
	return len(r.Paths)
}
