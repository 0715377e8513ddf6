// Package sqlite implements the corpus archive on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/record"
	"github.com/lenddata/morsel/pkg/morsel/store"
)

// sqliteStore implements store.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite archive with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	total INTEGER NOT NULL,
	malformed INTEGER NOT NULL,
	missing_fields INTEGER NOT NULL,
	duplicates INTEGER NOT NULL,
	quality_filtered INTEGER NOT NULL,
	emitted INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	instruction TEXT NOT NULL,
	context TEXT NOT NULL,
	response TEXT NOT NULL,
	metadata TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_context ON records(context);
CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run row.
func (s *sqliteStore) SaveRun(ctx context.Context, run store.Run) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO runs
	(id, started_at, total, malformed, missing_fields, duplicates, quality_filtered, emitted)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Total, run.Malformed, run.MissingFields,
		run.Duplicates, run.QualityFiltered, run.Emitted)
	return err
}

// GetRun returns a run by ID.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, started_at, total, malformed, missing_fields, duplicates, quality_filtered, emitted
FROM runs WHERE id = ?`, id)

	var run store.Run
	var startedAt string
	err := row.Scan(&run.ID, &startedAt, &run.Total, &run.Malformed,
		&run.MissingFields, &run.Duplicates, &run.QualityFiltered, &run.Emitted)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Run{}, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse run timestamp: %w", err)
	}
	return run, nil
}

// SaveRecords archives emitted records under the given run, assigning
// each a fresh ULID.
func (s *sqliteStore) SaveRecords(ctx context.Context, runID string, recs []record.Record) error {
	if runID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (id, run_id, instruction, context, response, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, rec := range recs {
		var meta any
		if rec.Metadata != nil {
			data, err := json.Marshal(rec.Metadata)
			if err != nil {
				return fmt.Errorf("encode metadata: %w", err)
			}
			meta = string(data)
		}
		_, err := stmt.ExecContext(ctx, ulid.Make().String(), runID,
			rec.Instruction, rec.ContextOrDefault(), rec.Response, meta, now)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CountRecords returns the number of archived records.
func (s *sqliteStore) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

// RecordsByContext returns archived records with the given context
// label, most recent first.
func (s *sqliteStore) RecordsByContext(ctx context.Context, context string, limit int) ([]record.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT instruction, context, response, metadata
FROM records WHERE context = ? ORDER BY id DESC LIMIT ?`, context, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []record.Record
	for rows.Next() {
		var rec record.Record
		var meta sql.NullString
		if err := rows.Scan(&rec.Instruction, &rec.Context, &rec.Response, &meta); err != nil {
			return nil, err
		}
		if meta.Valid {
			var m record.Metadata
			if err := json.Unmarshal([]byte(meta.String), &m); err == nil {
				rec.Metadata = &m
			}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
