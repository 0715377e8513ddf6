package pipeline

import "github.com/lenddata/morsel/pkg/morsel/record"

// Stats aggregates one run's per-stage counts and distributions.
// MissingFields counts schema violations, separately from Malformed
// (invalid JSON, counted by the reader) and Duplicates.
type Stats struct {
	Total           int
	Malformed       int
	MissingFields   int
	Duplicates      int
	QualityFiltered int
	Emitted         int

	Contexts      map[string]int
	QuestionTypes map[string]int

	Quality QualitySummary
}

// QualitySummary is the quality-score distribution over scored records.
type QualitySummary struct {
	Min   float64
	Max   float64
	Mean  float64
	count int
	sum   float64
}

func newStats() Stats {
	return Stats{
		Contexts:      make(map[string]int),
		QuestionTypes: make(map[string]int),
	}
}

// observe folds one enriched record into the distributions.
func (s *Stats) observe(rec record.Record) {
	s.Contexts[rec.ContextOrDefault()]++
	if rec.Metadata == nil {
		return
	}
	s.QuestionTypes[rec.Metadata.QuestionType]++

	q := rec.Metadata.QualityScore
	if s.Quality.count == 0 || q < s.Quality.Min {
		s.Quality.Min = q
	}
	if s.Quality.count == 0 || q > s.Quality.Max {
		s.Quality.Max = q
	}
	s.Quality.count++
	s.Quality.sum += q
	s.Quality.Mean = s.Quality.sum / float64(s.Quality.count)
}
