// Package quality estimates a record's fitness for training from
// length and structural signals. Scores are bounded to [0,1] and say
// nothing about factual correctness.
package quality

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/record"
)

// Strategy selects the scoring rule set. Full and Fast are different
// filters with different outcomes; callers pick one explicitly.
type Strategy int

const (
	// Full applies the complete additive point table.
	Full Strategy = iota
	// Fast applies only base score plus length bonuses, trading accuracy
	// for constant per-record cost on very large batches.
	Fast
)

// ParseStrategy maps a configuration name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "full":
		return Full, nil
	case "fast":
		return Fast, nil
	}
	return Full, fmt.Errorf("%w: unknown quality strategy %q", internalerr.ErrInvalidConfig, name)
}

func (s Strategy) String() string {
	if s == Fast {
		return "fast"
	}
	return "full"
}

// Preferred length bands.
const (
	minInstructionLen = 10
	maxInstructionLen = 200
	minResponseLen    = 50
	maxResponseLen    = 1000
)

// instructionOpeners are the recognized interrogative/imperative
// openers that earn the clarity bonus.
var instructionOpeners = []string{
	"what", "how", "why", "when", "who", "define", "explain", "describe",
}

// Scorer computes quality scores with a fixed strategy.
type Scorer struct {
	strategy Strategy
}

// New creates a Scorer for the given strategy.
func New(strategy Strategy) *Scorer {
	return &Scorer{strategy: strategy}
}

// Score returns the record's quality in [0,1]. Deterministic and total.
func (s *Scorer) Score(rec record.Record) float64 {
	if s.strategy == Fast {
		return fastScore(rec)
	}
	return fullScore(rec)
}

func fullScore(rec record.Record) float64 {
	score := 0.0

	instLen := utf8.RuneCountInString(rec.Instruction)
	respLen := utf8.RuneCountInString(rec.Response)

	switch {
	case instLen >= minInstructionLen && instLen <= maxInstructionLen:
		score += 0.2
	case instLen < minInstructionLen:
		score += 0.05
	default:
		score += 0.1
	}

	switch {
	case respLen >= minResponseLen && respLen <= maxResponseLen:
		score += 0.3
	case respLen < minResponseLen:
		score += 0.1
	default:
		score += 0.2
	}

	trimmed := strings.TrimSpace(rec.Response)
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
		score += 0.1
	}

	if rec.Context != "" {
		score += 0.1
	}

	// Truncated responses end with an ellipsis.
	if !strings.HasSuffix(rec.Response, "...") {
		score += 0.1
	}

	inst := strings.ToLower(rec.Instruction)
	for _, opener := range instructionOpeners {
		if strings.HasPrefix(inst, opener) {
			score += 0.2
			break
		}
	}

	return clamp(score)
}

func fastScore(rec record.Record) float64 {
	score := 0.5

	instLen := utf8.RuneCountInString(rec.Instruction)
	respLen := utf8.RuneCountInString(rec.Response)

	if instLen >= minInstructionLen && instLen <= maxInstructionLen {
		score += 0.2
	}
	if respLen >= minResponseLen && respLen <= maxResponseLen {
		score += 0.3
	}

	return clamp(score)
}

func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}
