// Package memstore is an in-memory store.Store implementation for
// tests and ephemeral runs.
package memstore

import (
	"context"
	"sync"

	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/record"
	"github.com/lenddata/morsel/pkg/morsel/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	records []archived
}

type archived struct {
	runID string
	rec   record.Record
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run keyed by ID.
func (s *Store) SaveRun(ctx context.Context, run store.Run) error {
	if run.ID == "" {
		return internalerr.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if run, ok := s.runs[id]; ok {
		return run, nil
	}
	return store.Run{}, internalerr.ErrNotFound
}

// SaveRecords appends records under the given run.
func (s *Store) SaveRecords(ctx context.Context, runID string, recs []record.Record) error {
	if runID == "" {
		return internalerr.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		s.records = append(s.records, archived{runID: runID, rec: copyRecord(rec)})
	}
	return nil
}

// CountRecords returns the number of stored records.
func (s *Store) CountRecords(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// RecordsByContext returns stored records with the given context
// label, most recent first.
func (s *Store) RecordsByContext(ctx context.Context, context string, limit int) ([]record.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []record.Record
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if s.records[i].rec.ContextOrDefault() == context {
			out = append(out, copyRecord(s.records[i].rec))
		}
	}
	return out, nil
}

func copyRecord(rec record.Record) record.Record {
	out := rec
	if rec.Metadata != nil {
		meta := *rec.Metadata
		meta.KeyTerms = append([]string(nil), rec.Metadata.KeyTerms...)
		out.Metadata = &meta
	}
	return out
}
