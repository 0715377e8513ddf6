package record

import (
	"encoding/json"
	"errors"
	"strings"
)

// DefaultContext is the canonical context label used when a record
// carries no context of its own.
const DefaultContext = "general"

// Record is one instruction/response training example.
type Record struct {
	Instruction string    `json:"instruction"`
	Context     string    `json:"context,omitempty"`
	Response    string    `json:"response"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Metadata holds derived per-record annotations. It is never required
// by a training consumer; only the metadata output file carries it.
type Metadata struct {
	InstructionTokens     int      `json:"instruction_tokens"`
	ResponseTokens        int      `json:"response_tokens"`
	TotalTokens           int      `json:"total_tokens"`
	InstructionLength     int      `json:"instruction_length"`
	ResponseLength        int      `json:"response_length"`
	InstructionComplexity string   `json:"instruction_complexity"`
	ResponseComplexity    string   `json:"response_complexity"`
	KeyTerms              []string `json:"key_terms"`
	QuestionType          string   `json:"question_type"`
	ResponseType          string   `json:"response_type"`
	QualityScore          float64  `json:"quality_score"`
}

// rawRecord accepts both schema generations: the canonical "response"
// field and the legacy "output" field name.
type rawRecord struct {
	Instruction string `json:"instruction"`
	Context     string `json:"context"`
	Response    string `json:"response"`
	Output      string `json:"output"`
}

// Parse decodes one JSONL line into a Record. The legacy "output" field
// is folded into Response; a long-form context label is folded to its
// canonical short form. Parse fails only on invalid JSON; field-level
// validation is a separate step.
func Parse(line []byte) (Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, err
	}

	resp := raw.Response
	if resp == "" {
		resp = raw.Output
	}

	return Record{
		Instruction: raw.Instruction,
		Context:     CanonicalContext(raw.Context),
		Response:    resp,
	}, nil
}

// Validate checks that the record has the fields required for training.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Instruction) == "" {
		return errors.New("record instruction is required")
	}

	if strings.TrimSpace(r.Response) == "" {
		return errors.New("record response is required")
	}

	return nil
}

// ContextOrDefault returns the record's context label, or DefaultContext
// when the record carries none.
func (r *Record) ContextOrDefault() string {
	if r.Context == "" {
		return DefaultContext
	}
	return r.Context
}
