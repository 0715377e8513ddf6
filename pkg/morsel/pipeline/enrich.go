package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lenddata/morsel/pkg/morsel/record"
)

var (
	capitalizedRe = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)
	quotedRe      = regexp.MustCompile(`"([^"]+)"`)
	acronymRe     = regexp.MustCompile(`\b[A-Z]{2,}\b`)
	sentenceRe    = regexp.MustCompile(`[.!?]+`)
	punctRe       = regexp.MustCompile(`[.,!?;:()]`)
)

const maxKeyTerms = 10

// enrich attaches derived metadata to a normalized record.
func (p *Pipeline) enrich(rec *record.Record) {
	instTokens := estimateTokens(rec.Instruction)
	respTokens := estimateTokens(rec.Response)

	rec.Metadata = &record.Metadata{
		InstructionTokens:     instTokens,
		ResponseTokens:        respTokens,
		TotalTokens:           instTokens + respTokens,
		InstructionLength:     utf8.RuneCountInString(rec.Instruction),
		ResponseLength:        utf8.RuneCountInString(rec.Response),
		InstructionComplexity: complexityLabel(rec.Instruction),
		ResponseComplexity:    complexityLabel(rec.Response),
		KeyTerms:              keyTerms(rec.Instruction + " " + rec.Response),
		QuestionType:          p.classifier.QuestionType(rec.Instruction),
		ResponseType:          p.classifier.ResponseType(rec.Response),
		QualityScore:          p.qual.Score(*rec),
	}
}

// estimateTokens approximates GPT-style token counts: words, a third
// extra for subword splits, plus punctuation.
func estimateTokens(text string) int {
	words := len(strings.Fields(text))
	punct := len(punctRe.FindAllString(text, -1))
	return words + words/3 + punct
}

// complexityLabel buckets text into simple/moderate/complex from
// average sentence length, average word length, and the share of long
// or hyphenated terms.
func complexityLabel(text string) string {
	sentences := sentenceRe.Split(text, -1)
	sentenceCount := 0
	sentenceWords := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) == "" {
			continue
		}
		sentenceCount++
		sentenceWords += len(strings.Fields(s))
	}
	if sentenceCount == 0 {
		sentenceCount = 1
	}
	avgSentenceLen := float64(sentenceWords) / float64(sentenceCount)

	words := strings.Fields(text)
	wordCount := len(words)
	if wordCount == 0 {
		wordCount = 1
	}
	totalLen := 0
	technical := 0
	for _, w := range words {
		totalLen += utf8.RuneCountInString(w)
		if utf8.RuneCountInString(w) > 10 || strings.Contains(w, "-") {
			technical++
		}
	}
	avgWordLen := float64(totalLen) / float64(wordCount)
	technicalRatio := float64(technical) / float64(wordCount)

	switch {
	case avgSentenceLen < 15 && avgWordLen < 6 && technicalRatio < 0.1:
		return "simple"
	case avgSentenceLen > 25 || avgWordLen > 7 || technicalRatio > 0.2:
		return "complex"
	}
	return "moderate"
}

// keyTerms extracts up to maxKeyTerms salient terms: capitalized runs,
// quoted spans, and acronyms, deduplicated case-insensitively in
// first-seen order.
func keyTerms(text string) []string {
	var terms []string

	capitalized := capitalizedRe.FindAllString(text, -1)
	if len(capitalized) > 5 {
		capitalized = capitalized[:5]
	}
	terms = append(terms, capitalized...)

	quoted := quotedRe.FindAllStringSubmatch(text, 3)
	for _, m := range quoted {
		terms = append(terms, m[1])
	}

	acronyms := acronymRe.FindAllString(text, 3)
	terms = append(terms, acronyms...)

	seen := make(map[string]struct{}, len(terms))
	unique := make([]string, 0, len(terms))
	for _, t := range terms {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, t)
	}

	if len(unique) > maxKeyTerms {
		unique = unique[:maxKeyTerms]
	}
	return unique
}
