// Package analytics aggregates duplicate and distribution statistics
// over an existing corpus, for inspection before or after a pipeline
// run.
package analytics

import (
	"sort"
	"strings"

	"github.com/lenddata/morsel/pkg/morsel/record"
)

type pairKey struct {
	instruction string
	response    string
}

// Analyzer consumes records one at a time and reports duplicate
// counts. Keys are lowercased and trimmed so near-identical casing
// counts as the same content.
type Analyzer struct {
	total        int
	instructions map[string]int
	responses    map[string]int
	pairs        map[pairKey]int
	contexts     map[string]int
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		instructions: make(map[string]int),
		responses:    make(map[string]int),
		pairs:        make(map[pairKey]int),
		contexts:     make(map[string]int),
	}
}

// Process consumes one record.
func (a *Analyzer) Process(rec record.Record) {
	a.total++

	inst := strings.ToLower(strings.TrimSpace(rec.Instruction))
	resp := strings.ToLower(strings.TrimSpace(rec.Response))

	a.instructions[inst]++
	a.responses[resp]++
	a.pairs[pairKey{inst, resp}]++
	a.contexts[rec.ContextOrDefault()]++
}

// DuplicatePair is one repeated instruction/response pair.
type DuplicatePair struct {
	Instruction string
	Response    string
	Count       int
}

// Report summarizes the analyzed corpus.
type Report struct {
	Total                 int
	UniqueInstructions    int
	UniqueResponses       int
	UniquePairs           int
	DuplicateInstructions int
	DuplicateResponses    int
	DuplicatePairs        int
	TopDuplicates         []DuplicatePair
	Contexts              map[string]int
}

// topDuplicateCount bounds the example pairs carried in a Report.
const topDuplicateCount = 5

// Report computes the summary over everything processed so far.
func (a *Analyzer) Report() Report {
	r := Report{
		Total:              a.total,
		UniqueInstructions: len(a.instructions),
		UniqueResponses:    len(a.responses),
		UniquePairs:        len(a.pairs),
		Contexts:           make(map[string]int, len(a.contexts)),
	}
	for ctx, n := range a.contexts {
		r.Contexts[ctx] = n
	}

	for _, n := range a.instructions {
		if n > 1 {
			r.DuplicateInstructions++
		}
	}
	for _, n := range a.responses {
		if n > 1 {
			r.DuplicateResponses++
		}
	}

	var dups []DuplicatePair
	for k, n := range a.pairs {
		if n > 1 {
			r.DuplicatePairs++
			dups = append(dups, DuplicatePair{Instruction: k.instruction, Response: k.response, Count: n})
		}
	}

	sort.Slice(dups, func(i, j int) bool {
		if dups[i].Count != dups[j].Count {
			return dups[i].Count > dups[j].Count
		}
		return dups[i].Instruction < dups[j].Instruction
	})
	if len(dups) > topDuplicateCount {
		dups = dups[:topDuplicateCount]
	}
	r.TopDuplicates = dups

	return r
}
