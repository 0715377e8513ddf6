package store

import (
	"context"
	"time"

	"github.com/lenddata/morsel/pkg/morsel/record"
)

// Store archives pipeline output: the emitted records of each run plus
// the run's aggregate counts.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, error)

	// Records
	SaveRecords(ctx context.Context, runID string, recs []record.Record) error
	CountRecords(ctx context.Context) (int64, error)
	RecordsByContext(ctx context.Context, context string, limit int) ([]record.Record, error)
}

// Run is one archived pipeline run.
type Run struct {
	ID              string
	StartedAt       time.Time
	Total           int
	Malformed       int
	MissingFields   int
	Duplicates      int
	QualityFiltered int
	Emitted         int
}
