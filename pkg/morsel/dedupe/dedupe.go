// Package dedupe decides whether each record in a stream duplicates an
// earlier accepted record. Decisions are greedy and order-dependent:
// the first occurrence of near-duplicate content wins and later
// occurrences are dropped.
package dedupe

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/normalize"
	"github.com/lenddata/morsel/pkg/morsel/record"
	"github.com/lenddata/morsel/pkg/morsel/similarity"
)

// Strategy selects the duplicate-detection algorithm.
type Strategy int

const (
	// Hash detects near-identical records by a content-signature hash.
	// O(1) per record; misses semantic near-duplicates.
	Hash Strategy = iota
	// Semantic detects near-duplicates by pairwise similarity against a
	// bounded window of accepted records. O(window) per record.
	Semantic
)

// ParseStrategy maps a configuration name to a Strategy. "fast" is an
// accepted alias for Hash.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "hash", "fast":
		return Hash, nil
	case "semantic":
		return Semantic, nil
	}
	return Hash, fmt.Errorf("%w: unknown dedup mode %q", internalerr.ErrInvalidConfig, name)
}

func (s Strategy) String() string {
	if s == Semantic {
		return "semantic"
	}
	return "hash"
}

const (
	// DefaultThreshold is the instruction-similarity threshold above
	// which responses are compared.
	DefaultThreshold = 0.85
	// DefaultWindow caps the accepted-record window in semantic mode.
	DefaultWindow = 1000

	// signaturePrefix is how many normalized characters of each field
	// feed the hash-mode signature.
	signaturePrefix = 100
	// responsePrefix bounds the response comparison in semantic mode.
	responsePrefix = 500
	// responseThresholdScale relaxes the response check relative to the
	// instruction threshold.
	responseThresholdScale = 0.9
)

// Stats counts the deduplicator's decisions. Rejected counts records
// missing required fields, separately from true duplicates.
type Stats struct {
	Accepted   int
	Duplicates int
	Rejected   int
}

// Config configures a Deduplicator. Zero values select the defaults.
type Config struct {
	Strategy   Strategy
	Threshold  float64
	Window     int
	Scorer     *similarity.Scorer
	Normalizer *normalize.Normalizer
}

// Deduplicator holds the accepted-set state for one pipeline run. It is
// not safe for concurrent use and must not be shared across runs.
type Deduplicator struct {
	strategy  Strategy
	threshold float64
	windowCap int
	norm      *normalize.Normalizer
	scorer    *similarity.Scorer

	seen   map[uint64]struct{} // hash mode
	window []windowEntry       // semantic mode, insertion-ordered
	stats  Stats
}

type windowEntry struct {
	instruction string
	response    string // bounded prefix
}

// New creates a Deduplicator with defaults filled in for zero config
// fields.
func New(cfg Config) *Deduplicator {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Normalizer == nil {
		cfg.Normalizer = normalize.New()
	}
	if cfg.Scorer == nil {
		cfg.Scorer = similarity.New(similarity.WithNormalizer(cfg.Normalizer))
	}
	return &Deduplicator{
		strategy:  cfg.Strategy,
		threshold: cfg.Threshold,
		windowCap: cfg.Window,
		norm:      cfg.Normalizer,
		scorer:    cfg.Scorer,
		seen:      make(map[uint64]struct{}),
	}
}

// Accept reports whether the record is new content and, if so, adds it
// to the accepted set. Records missing required fields are rejected and
// counted apart from duplicates. Accept never fails on malformed input.
func (d *Deduplicator) Accept(rec record.Record) bool {
	if rec.Validate() != nil {
		d.stats.Rejected++
		return false
	}

	var dup bool
	if d.strategy == Semantic {
		dup = d.acceptSemantic(rec)
	} else {
		dup = d.acceptHash(rec)
	}

	if dup {
		d.stats.Duplicates++
		return false
	}
	d.stats.Accepted++
	return true
}

// Stats returns the decision counts so far.
func (d *Deduplicator) Stats() Stats {
	return d.stats
}

func (d *Deduplicator) acceptHash(rec record.Record) bool {
	sig := d.signature(rec)
	if _, ok := d.seen[sig]; ok {
		return true
	}
	d.seen[sig] = struct{}{}
	return false
}

func (d *Deduplicator) signature(rec record.Record) uint64 {
	inst := truncateRunes(strings.ToLower(d.norm.Normalize(rec.Instruction)), signaturePrefix)
	resp := truncateRunes(strings.ToLower(d.norm.Normalize(rec.Response)), signaturePrefix)
	return xxhash.Sum64String(inst + "|" + resp)
}

func (d *Deduplicator) acceptSemantic(rec record.Record) bool {
	respPrefix := truncateRunes(rec.Response, responsePrefix)

	for _, seen := range d.window {
		instSim := d.scorer.Score(rec.Instruction, seen.instruction)
		if instSim <= d.threshold {
			continue
		}
		respSim := d.scorer.Score(respPrefix, seen.response)
		if respSim > d.threshold*responseThresholdScale {
			return true
		}
	}

	d.window = append(d.window, windowEntry{
		instruction: rec.Instruction,
		response:    respPrefix,
	})
	// Trim to the most recent half when the cap is exceeded. Duplicates
	// separated by more than the window can slip through; that is the
	// accuracy/cost trade-off keeping a full pass sub-quadratic.
	if len(d.window) > d.windowCap {
		half := d.windowCap / 2
		d.window = append(d.window[:0:0], d.window[len(d.window)-half:]...)
	}
	return false
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
