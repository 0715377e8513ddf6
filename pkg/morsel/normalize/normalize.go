// Package normalize canonicalizes raw corpus text: unicode folding,
// control-character stripping, whitespace and punctuation spacing,
// mojibake repair, quote folding, and abbreviation expansion.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mojibake repairs byte sequences produced by a prior UTF-8/cp1252
// decoding mismatch. Longer sequences are listed before the bare "â€"
// catch-all so they win.
var mojibake = strings.NewReplacer(
	"â€™", "'",
	"â€\"", "-",
	"â€œ", `"`,
	"â€", `"`,
	"Ã©", "e",
	"Ã¡", "a",
	"Ã±", "n",
)

// quoteFold maps curly quote variants to straight ASCII quotes.
var quoteFold = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‘", "'",
	"’", "'",
	"‚", "'",
)

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([.,!?;:])`)
	spaceAfterPunct  = regexp.MustCompile(`([.,!?;:])\s*`)
	multiSpace       = regexp.MustCompile(`\s+`)
)

// Normalizer canonicalizes text and expands domain abbreviations.
type Normalizer struct {
	abbrevs []abbrevRule
}

type abbrevRule struct {
	re        *regexp.Regexp
	expansion string
}

// New creates a Normalizer with the default mortgage abbreviation table.
func New() *Normalizer {
	return NewWithAbbreviations(DefaultAbbreviations())
}

// NewWithAbbreviations creates a Normalizer with a custom abbreviation
// table. Expansion uses case-insensitive whole-word matching, so "ltv"
// is rewritten but "ltva" is not. Rules are applied in sorted key order
// for determinism.
func NewWithAbbreviations(table map[string]string) *Normalizer {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]abbrevRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, abbrevRule{
			re:        regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`),
			expansion: table[k],
		})
	}
	return &Normalizer{abbrevs: rules}
}

// Normalize canonicalizes a raw string. It is total: empty input yields
// "" and no input makes it fail. Non-empty output always ends with
// terminal punctuation and uses straight quotes only.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Mojibake repair runs before the unicode fold; NFKD would decompose
	// the mis-decoded sequences and the replacements would never match.
	text = mojibake.Replace(text)

	text = foldUnicode(text)

	// Collapse whitespace runs to single spaces.
	text = strings.Join(strings.Fields(text), " ")

	// Punctuation spacing: none before, exactly one after.
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = spaceAfterPunct.ReplaceAllString(text, "${1} ")
	text = multiSpace.ReplaceAllString(text, " ")

	text = quoteFold.Replace(text)
	text = strings.TrimSpace(text)

	if text != "" && !strings.ContainsRune(".!?", lastRune(text)) {
		text += "."
	}

	return text
}

// ExpandAbbreviations rewrites known abbreviations to their long forms.
func (n *Normalizer) ExpandAbbreviations(text string) string {
	for _, rule := range n.abbrevs {
		text = rule.re.ReplaceAllString(text, rule.expansion)
	}
	return text
}

// foldUnicode applies the NFKD compatibility decomposition, strips
// control-category runes, and recomposes.
func foldUnicode(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.C)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		// Malformed UTF-8 is passed through; downstream stages treat the
		// text as opaque bytes.
		return text
	}
	return out
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
