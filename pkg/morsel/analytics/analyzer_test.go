package analytics

import (
	"fmt"
	"testing"

	"github.com/lenddata/morsel/pkg/morsel/record"
)

func TestReportEmpty(t *testing.T) {
	r := NewAnalyzer().Report()

	if r.Total != 0 || r.UniquePairs != 0 || len(r.TopDuplicates) != 0 {
		t.Errorf("empty analyzer produced %+v", r)
	}
}

func TestReportCounts(t *testing.T) {
	a := NewAnalyzer()

	a.Process(record.Record{Instruction: "What is PMI?", Response: "Private mortgage insurance.", Context: "financial"})
	a.Process(record.Record{Instruction: "what is pmi?", Response: "Private mortgage insurance."})
	a.Process(record.Record{Instruction: "What is PMI?", Response: "It protects the lender."})
	a.Process(record.Record{Instruction: "How do I refinance?", Response: "Apply with a lender."})

	r := a.Report()

	if r.Total != 4 {
		t.Errorf("Total = %d, want 4", r.Total)
	}
	// Case-folded, "What is PMI?" appears three times.
	if r.UniqueInstructions != 2 {
		t.Errorf("UniqueInstructions = %d, want 2", r.UniqueInstructions)
	}
	if r.UniqueResponses != 3 {
		t.Errorf("UniqueResponses = %d, want 3", r.UniqueResponses)
	}
	if r.UniquePairs != 3 {
		t.Errorf("UniquePairs = %d, want 3", r.UniquePairs)
	}
	if r.DuplicateInstructions != 1 || r.DuplicateResponses != 1 || r.DuplicatePairs != 1 {
		t.Errorf("duplicate counts = %d/%d/%d, want 1/1/1",
			r.DuplicateInstructions, r.DuplicateResponses, r.DuplicatePairs)
	}

	if len(r.TopDuplicates) != 1 {
		t.Fatalf("TopDuplicates = %+v", r.TopDuplicates)
	}
	if r.TopDuplicates[0].Count != 2 || r.TopDuplicates[0].Instruction != "what is pmi?" {
		t.Errorf("top duplicate = %+v", r.TopDuplicates[0])
	}

	if r.Contexts["financial"] != 1 || r.Contexts["general"] != 3 {
		t.Errorf("contexts = %v", r.Contexts)
	}
}

func TestTopDuplicatesOrderedAndBounded(t *testing.T) {
	a := NewAnalyzer()

	// Seven distinct pairs, each duplicated a different number of times.
	for i := 0; i < 7; i++ {
		rec := record.Record{
			Instruction: fmt.Sprintf("question %d", i),
			Response:    fmt.Sprintf("answer %d", i),
		}
		for n := 0; n < i+2; n++ {
			a.Process(rec)
		}
	}

	r := a.Report()

	if len(r.TopDuplicates) != 5 {
		t.Fatalf("len(TopDuplicates) = %d, want 5", len(r.TopDuplicates))
	}
	for i := 1; i < len(r.TopDuplicates); i++ {
		if r.TopDuplicates[i].Count > r.TopDuplicates[i-1].Count {
			t.Errorf("TopDuplicates not count-descending: %+v", r.TopDuplicates)
		}
	}
	if r.TopDuplicates[0].Instruction != "question 6" || r.TopDuplicates[0].Count != 8 {
		t.Errorf("most duplicated pair = %+v", r.TopDuplicates[0])
	}
}
