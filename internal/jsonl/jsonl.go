// Package jsonl reads and writes corpus files in the JSON Lines format.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lenddata/morsel/pkg/morsel/record"
)

// maxLineBytes bounds a single record line. Responses are short prose;
// anything beyond this is not a valid record.
const maxLineBytes = 4 * 1024 * 1024

// ReadFile loads records from a JSONL file. Malformed lines are
// skipped and counted, never fatal; the count is returned alongside
// the records.
func ReadFile(path string) ([]record.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records []record.Record
	malformed := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, err := record.Parse([]byte(line))
		if err != nil {
			malformed++
			log.Printf("warning: skipping malformed JSON at line %d in %s: %v", lineNum, path, err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, malformed, fmt.Errorf("read %s: %w", path, err)
	}

	return records, malformed, nil
}

// ReadFiles loads and concatenates records from several JSONL files in
// argument order.
func ReadFiles(paths []string) ([]record.Record, int, error) {
	var all []record.Record
	malformed := 0
	for _, path := range paths {
		recs, bad, err := ReadFile(path)
		if err != nil {
			return nil, malformed, err
		}
		all = append(all, recs...)
		malformed += bad
	}
	return all, malformed, nil
}

// minimalRecord is the three-field schema consumed by training.
type minimalRecord struct {
	Instruction string `json:"instruction"`
	Context     string `json:"context"`
	Response    string `json:"response"`
}

// WriteMinimal writes the minimal training schema, one record per
// line, in slice order. A missing context becomes the default label.
func WriteMinimal(path string, recs []record.Record) error {
	return writeLines(path, recs, func(rec record.Record) any {
		return minimalRecord{
			Instruction: rec.Instruction,
			Context:     rec.ContextOrDefault(),
			Response:    rec.Response,
		}
	})
}

// WriteMetadata writes the metadata-annotated schema in the same order
// WriteMinimal uses.
func WriteMetadata(path string, recs []record.Record) error {
	return writeLines(path, recs, func(rec record.Record) any {
		rec.Context = rec.ContextOrDefault()
		return rec
	})
}

func writeLines(path string, recs []record.Record, project func(record.Record) any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for _, rec := range recs {
		data, err := json.Marshal(project(rec))
		if err != nil {
			f.Close()
			return fmt.Errorf("encode record: %w", err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// MetadataPath derives the metadata-file path from the minimal output
// path: out.jsonl -> out_with_metadata.jsonl.
func MetadataPath(path string) string {
	if strings.HasSuffix(path, ".jsonl") {
		return strings.TrimSuffix(path, ".jsonl") + "_with_metadata.jsonl"
	}
	return path + "_with_metadata.jsonl"
}
