// Package morsel is the corpus-builder facade: it reads raw JSONL
// record files, runs them through the normalization/deduplication
// pipeline, writes the training artifacts, and optionally archives the
// result to a store.
package morsel

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lenddata/morsel/internal/jsonl"
	"github.com/lenddata/morsel/pkg/morsel/analytics"
	"github.com/lenddata/morsel/pkg/morsel/config"
	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/pipeline"
	"github.com/lenddata/morsel/pkg/morsel/store"
)

// Options configures an Engine.
type Options struct {
	Config config.Config
	Store  store.Store // optional archive; nil disables archiving
}

// Engine ties the pipeline to file I/O and the optional archive.
type Engine struct {
	cfg   config.Config
	pipe  *pipeline.Pipeline
	store store.Store
}

// New validates the configuration and creates an Engine.
func New(opts Options) (*Engine, error) {
	pcfg, err := opts.Config.Pipeline()
	if err != nil {
		return nil, err
	}
	pipe, err := pipeline.New(pcfg)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: opts.Config, pipe: pipe, store: opts.Store}, nil
}

// Close releases the archive, if any.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// Result reports one completed run.
type Result struct {
	Stats          pipeline.Stats
	Output         string
	MetadataOutput string
	RunID          string
}

// ProcessFiles runs the full pipeline over the input files and writes
// the minimal and metadata artifacts. Both files contain records in
// identical order. Inputs yielding no records at all are a fatal
// error, not an empty success.
func (e *Engine) ProcessFiles(ctx context.Context, inputs []string, output string) (Result, error) {
	startedAt := time.Now()

	records, malformed, err := jsonl.ReadFiles(inputs)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 && malformed == 0 {
		return Result{}, fmt.Errorf("%w: nothing to process in %d input file(s)", internalerr.ErrNoInput, len(inputs))
	}

	kept, stats, err := e.pipe.Run(ctx, records)
	if err != nil {
		return Result{}, err
	}
	stats.Malformed = malformed
	stats.Total += malformed

	if err := jsonl.WriteMinimal(output, kept); err != nil {
		return Result{}, err
	}
	metaPath := jsonl.MetadataPath(output)
	if err := jsonl.WriteMetadata(metaPath, kept); err != nil {
		return Result{}, err
	}

	res := Result{
		Stats:          stats,
		Output:         output,
		MetadataOutput: metaPath,
	}

	if e.store != nil {
		res.RunID = ulid.Make().String()
		run := store.Run{
			ID:              res.RunID,
			StartedAt:       startedAt,
			Total:           stats.Total,
			Malformed:       stats.Malformed,
			MissingFields:   stats.MissingFields,
			Duplicates:      stats.Duplicates,
			QualityFiltered: stats.QualityFiltered,
			Emitted:         stats.Emitted,
		}
		if err := e.store.SaveRun(ctx, run); err != nil {
			return res, fmt.Errorf("archive run: %w", err)
		}
		if err := e.store.SaveRecords(ctx, res.RunID, kept); err != nil {
			return res, fmt.Errorf("archive records: %w", err)
		}
	}

	return res, nil
}

// VerifyReport summarizes a validation pass over raw input files.
type VerifyReport struct {
	Records       int // lines that parsed as JSON
	Malformed     int // lines that did not
	MissingFields int // parsed records failing field validation
}

// Valid reports whether every line parsed and validated.
func (r VerifyReport) Valid() bool {
	return r.Malformed == 0 && r.MissingFields == 0
}

// VerifyFiles checks the inputs without writing anything: malformed
// JSON lines and records missing required fields are counted.
func (e *Engine) VerifyFiles(inputs []string) (VerifyReport, error) {
	records, malformed, err := jsonl.ReadFiles(inputs)
	if err != nil {
		return VerifyReport{}, err
	}

	rep := VerifyReport{Records: len(records), Malformed: malformed}
	for _, rec := range records {
		if rec.Validate() != nil {
			rep.MissingFields++
		}
	}
	return rep, nil
}

// AnalyzeFiles summarizes duplicate statistics over the input files
// without modifying anything.
func (e *Engine) AnalyzeFiles(inputs []string) (analytics.Report, int, error) {
	records, malformed, err := jsonl.ReadFiles(inputs)
	if err != nil {
		return analytics.Report{}, 0, err
	}

	analyzer := analytics.NewAnalyzer()
	for _, rec := range records {
		analyzer.Process(rec)
	}
	return analyzer.Report(), malformed, nil
}
