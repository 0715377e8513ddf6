// Package pipeline orchestrates the corpus build: validate, normalize,
// deduplicate, classify and score, filter, sort. One Pipeline value can
// process many batches; the deduplicator's accepted set is created
// fresh per Run and never shared.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lenddata/morsel/pkg/morsel/classify"
	"github.com/lenddata/morsel/pkg/morsel/dedupe"
	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/normalize"
	"github.com/lenddata/morsel/pkg/morsel/quality"
	"github.com/lenddata/morsel/pkg/morsel/record"
	"github.com/lenddata/morsel/pkg/morsel/similarity"
)

// SortMode names the output ordering. The two modes serve different
// consumers and are never swapped silently.
type SortMode int

const (
	// SortByQuality orders records best-first: quality score descending,
	// ties kept in insertion order.
	SortByQuality SortMode = iota
	// SortByLength is the canonical ordering: instruction length
	// ascending, ties broken by instruction text.
	SortByLength
)

// ParseSortMode maps a configuration name to a SortMode.
func ParseSortMode(name string) (SortMode, error) {
	switch strings.ToLower(name) {
	case "quality":
		return SortByQuality, nil
	case "length":
		return SortByLength, nil
	}
	return SortByQuality, fmt.Errorf("%w: unknown sort mode %q", internalerr.ErrInvalidConfig, name)
}

func (m SortMode) String() string {
	if m == SortByLength {
		return "length"
	}
	return "quality"
}

// DefaultQualityThreshold is the default minimum quality score kept in
// the output. Configurable; the value has no derivation beyond working
// well on the source corpus.
const DefaultQualityThreshold = 0.3

// Config configures a Pipeline. Zero values select defaults.
type Config struct {
	Mode             dedupe.Strategy
	QualityStrategy  quality.Strategy
	Sort             SortMode
	DedupThreshold   float64 // similarity threshold, (0,1]
	QualityThreshold float64 // minimum quality kept, [0,1]
	Window           int     // semantic-mode window cap

	// AssignContext fills a missing context field from the category
	// classifier before scoring, instead of leaving it for the emitter's
	// default label.
	AssignContext bool

	// Stemming enables token stemming inside similarity comparison.
	Stemming bool

	Rules         *classify.Ruleset // nil means DefaultRuleset
	Abbreviations map[string]string // nil means DefaultAbbreviations
	Stopwords     []string          // nil means similarity defaults
}

// Pipeline holds the stateless stage components.
type Pipeline struct {
	cfg        Config
	norm       *normalize.Normalizer
	classifier *classify.Classifier
	scorer     *similarity.Scorer
	qual       *quality.Scorer
}

// New validates the configuration and builds a Pipeline. Configuration
// errors are fatal and reported before any processing begins.
func New(cfg Config) (*Pipeline, error) {
	if cfg.DedupThreshold == 0 {
		cfg.DedupThreshold = dedupe.DefaultThreshold
	}
	if cfg.DedupThreshold < 0 || cfg.DedupThreshold > 1 {
		return nil, fmt.Errorf("%w: dedup threshold %v outside [0,1]", internalerr.ErrInvalidConfig, cfg.DedupThreshold)
	}
	if cfg.QualityThreshold < 0 || cfg.QualityThreshold > 1 {
		return nil, fmt.Errorf("%w: quality threshold %v outside [0,1]", internalerr.ErrInvalidConfig, cfg.QualityThreshold)
	}
	if cfg.Window < 0 {
		return nil, fmt.Errorf("%w: window %d is negative", internalerr.ErrInvalidConfig, cfg.Window)
	}
	if cfg.Window == 0 {
		cfg.Window = dedupe.DefaultWindow
	}

	abbrevs := cfg.Abbreviations
	if abbrevs == nil {
		abbrevs = normalize.DefaultAbbreviations()
	}
	norm := normalize.NewWithAbbreviations(abbrevs)

	rules := classify.DefaultRuleset()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}

	simOpts := []similarity.Option{similarity.WithNormalizer(norm)}
	if cfg.Stopwords != nil {
		simOpts = append(simOpts, similarity.WithStopwords(cfg.Stopwords))
	}
	if cfg.Stemming {
		simOpts = append(simOpts, similarity.WithStemming())
	}

	return &Pipeline{
		cfg:        cfg,
		norm:       norm,
		classifier: classify.New(rules),
		scorer:     similarity.New(simOpts...),
		qual:       quality.New(cfg.QualityStrategy),
	}, nil
}

// Run processes one batch through all stages and returns the surviving
// records in output order with aggregate statistics. Cancelling the
// context stops consumption between records; the partial result and
// the context error are returned.
func (p *Pipeline) Run(ctx context.Context, records []record.Record) ([]record.Record, Stats, error) {
	stats := newStats()
	stats.Total = len(records)

	dedup := dedupe.New(dedupe.Config{
		Strategy:   p.cfg.Mode,
		Threshold:  p.cfg.DedupThreshold,
		Window:     p.cfg.Window,
		Scorer:     p.scorer,
		Normalizer: p.norm,
	})

	var kept []record.Record
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return kept, stats, err
		}

		if rec.Validate() != nil {
			stats.MissingFields++
			continue
		}

		rec.Instruction = p.norm.ExpandAbbreviations(p.norm.Normalize(rec.Instruction))
		rec.Response = p.norm.ExpandAbbreviations(p.norm.Normalize(rec.Response))
		rec.Context = record.CanonicalContext(rec.Context)

		if !dedup.Accept(rec) {
			continue
		}

		if p.cfg.AssignContext && rec.Context == "" {
			rec.Context = p.classifier.Category(rec.Instruction, rec.Response)
		}

		p.enrich(&rec)

		stats.observe(rec)

		if rec.Metadata.QualityScore < p.cfg.QualityThreshold {
			stats.QualityFiltered++
			continue
		}

		kept = append(kept, rec)
	}

	dstats := dedup.Stats()
	stats.Duplicates = dstats.Duplicates
	stats.MissingFields += dstats.Rejected
	stats.Emitted = len(kept)

	p.sortRecords(kept)

	return kept, stats, nil
}

func (p *Pipeline) sortRecords(recs []record.Record) {
	switch p.cfg.Sort {
	case SortByLength:
		sort.SliceStable(recs, func(i, j int) bool {
			li := utf8.RuneCountInString(recs[i].Instruction)
			lj := utf8.RuneCountInString(recs[j].Instruction)
			if li != lj {
				return li < lj
			}
			return recs[i].Instruction < recs[j].Instruction
		})
	default:
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Metadata.QualityScore > recs[j].Metadata.QualityScore
		})
	}
}
