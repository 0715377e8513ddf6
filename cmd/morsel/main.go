// Command morsel builds a supervised fine-tuning corpus: it ingests
// raw instruction/response JSONL files, normalizes and deduplicates
// them, scores and filters for quality, and writes the training
// artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/lenddata/morsel/pkg/morsel"
	"github.com/lenddata/morsel/pkg/morsel/analytics"
	"github.com/lenddata/morsel/pkg/morsel/config"
	"github.com/lenddata/morsel/pkg/morsel/store"
	storesqlite "github.com/lenddata/morsel/pkg/morsel/store/sqlite"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	var inputs multiFlag
	flag.Var(&inputs, "input", "Input JSONL file (repeatable, required)")
	var (
		output     = flag.String("output", "", "Output JSONL file (required unless -analyze)")
		configPath = flag.String("config", "", "YAML config file (optional)")
		mode       = flag.String("mode", "", "Dedup mode: fast|semantic")
		sortMode   = flag.String("sort", "", "Output order: quality|length")
		quality    = flag.String("quality", "", "Quality strategy: full|fast")
		threshold  = flag.Float64("threshold", -1, "Similarity threshold for semantic dedup")
		qualityMin = flag.Float64("quality-min", -1, "Minimum quality score kept")
		window     = flag.Int("window", 0, "Semantic dedup window size")
		dbPath     = flag.String("db", "", "SQLite archive path (optional)")
		analyze    = flag.Bool("analyze", false, "Report duplicate statistics; no output written")
		verify     = flag.Bool("verify", false, "Validate inputs only; exit non-zero on bad records")
	)
	flag.Parse()

	if len(inputs) == 0 {
		log.Fatal("-input required")
	}
	if !*analyze && !*verify && *output == "" {
		log.Fatal("-output required")
	}
	for _, path := range inputs {
		if _, err := os.Stat(path); err != nil {
			log.Fatalf("input file: %v", err)
		}
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	// Flags override the config file.
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *sortMode != "" {
		cfg.Sort = *sortMode
	}
	if *quality != "" {
		cfg.QualityStrategy = *quality
	}
	if *threshold >= 0 {
		cfg.DedupThreshold = *threshold
	}
	if *qualityMin >= 0 {
		cfg.QualityMin = *qualityMin
	}
	if *window > 0 {
		cfg.Window = *window
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var archive store.Store
	if *dbPath != "" {
		var err error
		archive, err = storesqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatalf("open archive: %v", err)
		}
	}

	engine, err := morsel.New(morsel.Options{Config: cfg, Store: archive})
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	if *verify {
		rep, err := engine.VerifyFiles(inputs)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("=== Input Verification ===")
		fmt.Printf("Parsed records:  %s\n", humanize.Comma(int64(rep.Records)))
		fmt.Printf("Malformed lines: %s\n", humanize.Comma(int64(rep.Malformed)))
		fmt.Printf("Missing fields:  %s\n", humanize.Comma(int64(rep.MissingFields)))
		if !rep.Valid() {
			os.Exit(1)
		}
		return
	}

	if *analyze {
		report, malformed, err := engine.AnalyzeFiles(inputs)
		if err != nil {
			log.Fatal(err)
		}
		printAnalysis(report, malformed)
		return
	}

	res, err := engine.ProcessFiles(ctx, inputs, *output)
	if err != nil {
		log.Fatal(err)
	}
	printReport(cfg, res)
}

func printReport(cfg config.Config, res morsel.Result) {
	stats := res.Stats

	fmt.Println("=== Corpus Build Report ===")
	fmt.Printf("Mode: %s dedup, %s quality, sorted by %s\n", cfg.Mode, cfg.QualityStrategy, cfg.Sort)
	fmt.Printf("Input records:     %s\n", humanize.Comma(int64(stats.Total)))
	fmt.Printf("Malformed lines:   %s\n", humanize.Comma(int64(stats.Malformed)))
	fmt.Printf("Missing fields:    %s\n", humanize.Comma(int64(stats.MissingFields)))
	fmt.Printf("Duplicates:        %s\n", humanize.Comma(int64(stats.Duplicates)))
	fmt.Printf("Quality filtered:  %s\n", humanize.Comma(int64(stats.QualityFiltered)))
	fmt.Printf("Emitted:           %s\n", humanize.Comma(int64(stats.Emitted)))

	if stats.Emitted > 0 {
		fmt.Printf("Quality scores:    min %.3f  mean %.3f  max %.3f\n",
			stats.Quality.Min, stats.Quality.Mean, stats.Quality.Max)
	}

	printDistribution("Context distribution", stats.Contexts, stats.Emitted)
	printDistribution("Question types", stats.QuestionTypes, stats.Emitted)

	fmt.Printf("\nOutput: %s (%s)\n", res.Output, fileSize(res.Output))
	fmt.Printf("Metadata: %s (%s)\n", res.MetadataOutput, fileSize(res.MetadataOutput))
	if res.RunID != "" {
		fmt.Printf("Archived as run %s\n", res.RunID)
	}
}

func printAnalysis(report analytics.Report, malformed int) {
	fmt.Println("=== Duplicate Analysis ===")
	fmt.Printf("Total records:       %s\n", humanize.Comma(int64(report.Total)))
	fmt.Printf("Malformed lines:     %s\n", humanize.Comma(int64(malformed)))
	fmt.Printf("Unique instructions: %s\n", humanize.Comma(int64(report.UniqueInstructions)))
	fmt.Printf("Unique responses:    %s\n", humanize.Comma(int64(report.UniqueResponses)))
	fmt.Printf("Unique pairs:        %s\n", humanize.Comma(int64(report.UniquePairs)))
	fmt.Printf("Duplicate instructions: %d\n", report.DuplicateInstructions)
	fmt.Printf("Duplicate responses:    %d\n", report.DuplicateResponses)
	fmt.Printf("Duplicate pairs:        %d\n", report.DuplicatePairs)

	if len(report.TopDuplicates) > 0 {
		fmt.Println("\nTop duplicate pairs:")
		for _, dup := range report.TopDuplicates {
			fmt.Printf("  %dx %s\n", dup.Count, truncate(dup.Instruction, 100))
		}
	}

	printDistribution("Context distribution", report.Contexts, report.Total)
}

func printDistribution(title string, counts map[string]int, total int) {
	if len(counts) == 0 || total == 0 {
		return
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	fmt.Printf("\n%s:\n", title)
	for _, e := range entries {
		fmt.Printf("  %-18s %s (%.1f%%)\n", e.name,
			humanize.Comma(int64(e.count)), float64(e.count)/float64(total)*100)
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
