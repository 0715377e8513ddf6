package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/record"
	"github.com/lenddata/morsel/pkg/morsel/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "morsel.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	run := store.Run{
		ID:              "run-1",
		StartedAt:       started,
		Total:           100,
		Malformed:       2,
		MissingFields:   3,
		Duplicates:      10,
		QualityFiltered: 5,
		Emitted:         80,
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	got.StartedAt, run.StartedAt = time.Time{}, time.Time{}
	if got != run {
		t.Errorf("round-tripped run = %+v, want %+v", got, run)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetRun(context.Background(), "absent"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSaveRunReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := store.Run{ID: "run-1", StartedAt: time.Now().UTC().Truncate(time.Second), Emitted: 1}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	run.Emitted = 2
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("replacing a run should succeed: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil || got.Emitted != 2 {
		t.Errorf("GetRun = %+v, %v; want Emitted 2", got, err)
	}
}

func TestSaveRunRequiresID(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveRun(context.Background(), store.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestSaveAndQueryRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveRun(ctx, store.Run{ID: "run-1", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	recs := []record.Record{
		{
			Instruction: "What is PMI?",
			Response:    "Private mortgage insurance.",
			Context:     "financial",
			Metadata:    &record.Metadata{QuestionType: "definition", QualityScore: 0.9},
		},
		{Instruction: "How do I refinance?", Response: "Apply with a lender."},
	}
	if err := s.SaveRecords(ctx, "run-1", recs); err != nil {
		t.Fatalf("SaveRecords failed: %v", err)
	}

	n, err := s.CountRecords(ctx)
	if err != nil || n != 2 {
		t.Errorf("CountRecords = %d, %v; want 2", n, err)
	}

	fin, err := s.RecordsByContext(ctx, "financial", 10)
	if err != nil {
		t.Fatalf("RecordsByContext failed: %v", err)
	}
	if len(fin) != 1 {
		t.Fatalf("len = %d, want 1", len(fin))
	}
	if fin[0].Instruction != "What is PMI?" {
		t.Errorf("record = %+v", fin[0])
	}
	if fin[0].Metadata == nil || fin[0].Metadata.QualityScore != 0.9 {
		t.Errorf("metadata not round-tripped: %+v", fin[0].Metadata)
	}

	// The context-less record is archived under the default label.
	gen, err := s.RecordsByContext(ctx, "general", 10)
	if err != nil || len(gen) != 1 {
		t.Errorf("general records = %d, %v; want 1", len(gen), err)
	}
	if len(gen) == 1 && gen[0].Metadata != nil {
		t.Errorf("record without metadata grew some: %+v", gen[0].Metadata)
	}
}

func TestSaveRecordsRequiresRunID(t *testing.T) {
	s := openTestStore(t)

	err := s.SaveRecords(context.Background(), "", []record.Record{{Instruction: "q", Response: "r"}})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}
