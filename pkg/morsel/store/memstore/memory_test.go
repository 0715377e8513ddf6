package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/record"
	"github.com/lenddata/morsel/pkg/morsel/store"
)

func TestSaveAndGetRun(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	run := store.Run{ID: "run-1", StartedAt: time.Now(), Total: 10, Emitted: 7}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Total != 10 || got.Emitted != 7 {
		t.Errorf("run = %+v", got)
	}

	if _, err := s.GetRun(ctx, "absent"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("unknown run: got %v, want ErrNotFound", err)
	}
	if err := s.SaveRun(ctx, store.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty run ID: got %v, want ErrInvalidInput", err)
	}
}

func TestSaveAndQueryRecords(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	recs := []record.Record{
		{Instruction: "q1", Response: "r1", Context: "financial"},
		{Instruction: "q2", Response: "r2", Context: "financial"},
		{Instruction: "q3", Response: "r3"},
	}
	if err := s.SaveRecords(ctx, "run-1", recs); err != nil {
		t.Fatalf("SaveRecords failed: %v", err)
	}

	n, err := s.CountRecords(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountRecords = %d, %v; want 3", n, err)
	}

	fin, err := s.RecordsByContext(ctx, "financial", 0)
	if err != nil {
		t.Fatalf("RecordsByContext failed: %v", err)
	}
	if len(fin) != 2 {
		t.Fatalf("len = %d, want 2", len(fin))
	}
	// Most recent first.
	if fin[0].Instruction != "q2" || fin[1].Instruction != "q1" {
		t.Errorf("order wrong: %q, %q", fin[0].Instruction, fin[1].Instruction)
	}

	// The context-less record is stored under the default label.
	gen, err := s.RecordsByContext(ctx, "general", 0)
	if err != nil || len(gen) != 1 {
		t.Errorf("general records = %d, %v; want 1", len(gen), err)
	}

	if err := s.SaveRecords(ctx, "", recs); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty run ID: got %v, want ErrInvalidInput", err)
	}
}

func TestRecordsByContextLimit(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	var recs []record.Record
	for i := 0; i < 5; i++ {
		recs = append(recs, record.Record{Instruction: "q", Response: "r", Context: "property"})
	}
	if err := s.SaveRecords(ctx, "run-1", recs); err != nil {
		t.Fatal(err)
	}

	got, err := s.RecordsByContext(ctx, "property", 2)
	if err != nil || len(got) != 2 {
		t.Errorf("limited query = %d records, %v; want 2", len(got), err)
	}
}

func TestStoredRecordsAreIsolated(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	rec := record.Record{
		Instruction: "q",
		Response:    "r",
		Context:     "financial",
		Metadata:    &record.Metadata{KeyTerms: []string{"PMI"}, QualityScore: 0.9},
	}
	if err := s.SaveRecords(ctx, "run-1", []record.Record{rec}); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy must not reach the archive.
	rec.Metadata.KeyTerms[0] = "mutated"
	rec.Metadata.QualityScore = 0

	got, err := s.RecordsByContext(ctx, "financial", 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("query = %d records, %v", len(got), err)
	}
	if got[0].Metadata.KeyTerms[0] != "PMI" || got[0].Metadata.QualityScore != 0.9 {
		t.Errorf("archived record shares memory with caller: %+v", got[0].Metadata)
	}
}
