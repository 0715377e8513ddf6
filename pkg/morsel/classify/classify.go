// Package classify labels corpus records: a domain category from
// weighted keyword counts, a question type from instruction prefixes,
// and a response type from structural markers. All classification is
// pure, deterministic, and case-insensitive.
package classify

import (
	"strings"
	"unicode/utf8"
)

// Category is one named category with its keyword list. Keywords are
// matched as lowercase substrings and counted per occurrence.
type Category struct {
	Name     string
	Keywords []string
}

// Ruleset is the classifier configuration. Declaration order of
// Categories is the tie-break priority: on equal scores the
// first-declared category wins.
type Ruleset struct {
	Categories []Category
	Default    string
}

// Classifier assigns category, question-type, and response-type labels.
type Classifier struct {
	rules Ruleset
}

// New creates a Classifier from an explicit ruleset. An empty Default
// falls back to "general".
func New(rules Ruleset) *Classifier {
	if rules.Default == "" {
		rules.Default = "general"
	}
	lowered := make([]Category, len(rules.Categories))
	for i, cat := range rules.Categories {
		kws := make([]string, len(cat.Keywords))
		for j, kw := range cat.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		lowered[i] = Category{Name: cat.Name, Keywords: kws}
	}
	rules.Categories = lowered
	return &Classifier{rules: rules}
}

// Instruction keyword hits weigh more than response hits when scoring
// categories.
const (
	instructionWeight = 3
	responseWeight    = 2
)

// Category scores every configured category against the instruction and
// response and returns the best label. When no keyword matches at all,
// prefix and content heuristics pick a fallback before the declared
// default.
func (c *Classifier) Category(instruction, response string) string {
	inst := strings.ToLower(instruction)
	resp := strings.ToLower(response)

	bestName := c.rules.Default
	bestScore := 0
	for _, cat := range c.rules.Categories {
		score := 0
		for _, kw := range cat.Keywords {
			score += strings.Count(inst, kw) * instructionWeight
			score += strings.Count(resp, kw) * responseWeight
		}
		// Strict comparison keeps the first-declared category on ties.
		if score > bestScore {
			bestScore = score
			bestName = cat.Name
		}
	}

	if bestScore > 0 {
		return bestName
	}

	switch {
	case hasPrefix(inst, "define", "what is", "what are"):
		return "terminology"
	case strings.Contains(resp, "data type") || strings.Contains(resp, "allowable values"):
		return "data_dictionary"
	case strings.Contains(inst+" "+resp, "fannie mae"):
		return "fannie_products"
	}
	return c.rules.Default
}

// QuestionType classifies an instruction by its opening words.
func (c *Classifier) QuestionType(instruction string) string {
	inst := strings.ToLower(instruction)

	switch {
	case hasPrefix(inst, "what is", "what are", "what does"):
		return "definition"
	case hasPrefix(inst, "how to", "how do", "how can"):
		return "procedural"
	case hasPrefix(inst, "why", "explain why"):
		return "explanatory"
	case hasPrefix(inst, "when", "what time"):
		return "temporal"
	case hasPrefix(inst, "who", "whom"):
		return "identity"
	case hasPrefix(inst, "define", "definition"):
		return "definition"
	case hasPrefix(inst, "compare", "difference", "contrast"):
		return "comparison"
	case hasPrefix(inst, "list", "enumerate", "what are all"):
		return "enumeration"
	case strings.Contains(inst, "calculate") || strings.Contains(inst, "compute"):
		return "calculation"
	}
	return "general"
}

// stepMarkers indicate an ordered, procedural response.
var stepMarkers = []string{"step 1", "1.", "first,", "second,", "finally"}

// ResponseType classifies a response by structural signals, then by
// length.
func (c *Classifier) ResponseType(response string) string {
	resp := strings.ToLower(response)

	switch {
	case strings.Contains(resp, "definition:") || hasPrefix(resp, "a ", "an "):
		return "definition"
	case containsAny(resp, stepMarkers):
		return "step_by_step"
	case strings.Contains(resp, "for example") || strings.Contains(resp, "such as"):
		return "example_based"
	case utf8.RuneCountInString(response) < 100:
		return "brief"
	case utf8.RuneCountInString(response) > 500:
		return "detailed"
	case strings.Contains(response, "•") || strings.Contains(response, "- "):
		return "list"
	}
	return "standard"
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
