package normalize

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	n := New()

	got := n.Normalize("what is   LTV?")
	if got != "what is LTV?" {
		t.Errorf("expected collapsed whitespace, got %q", got)
	}

	got = n.Normalize("  leading and trailing  ")
	if got != "leading and trailing." {
		t.Errorf("expected trimmed text with terminal period, got %q", got)
	}
}

func TestNormalizeTerminalPunctuation(t *testing.T) {
	n := New()

	cases := map[string]string{
		"no punctuation":   "no punctuation.",
		"ends with period": "ends with period.",
		"a question?":      "a question?",
		"an exclamation!":  "an exclamation!",
	}
	for in, want := range cases {
		if got := n.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := New()

	if got := n.Normalize(""); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}

	// Control characters only
	if got := n.Normalize("\x00​\ufeff"); got != "" {
		t.Errorf("control-only input should normalize to empty, got %q", got)
	}
}

func TestNormalizeMojibake(t *testing.T) {
	n := New()

	got := n.Normalize("the borrowerâ€™s loan")
	if got != "the borrower's loan." {
		t.Errorf("mojibake apostrophe not repaired: %q", got)
	}

	got = n.Normalize("cafÃ© rate")
	if got != "cafe rate." {
		t.Errorf("mojibake accent not repaired: %q", got)
	}
}

func TestNormalizeQuotes(t *testing.T) {
	n := New()

	got := n.Normalize("“HomeReady” is Fannie Mae’s program")
	if got != `"HomeReady" is Fannie Mae's program.` {
		t.Errorf("curly quotes not folded: %q", got)
	}
}

func TestNormalizePunctuationSpacing(t *testing.T) {
	n := New()

	got := n.Normalize("rates , fees ;and points")
	if got != "rates, fees; and points." {
		t.Errorf("punctuation spacing wrong: %q", got)
	}
}

func TestNormalizeControlCharacters(t *testing.T) {
	n := New()

	got := n.Normalize("first second​third")
	if got != "first secondthird." {
		t.Errorf("control characters not stripped: %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New()

	inputs := []string{
		"what is   LTV?",
		"the borrowerâ€™s loan",
		"“quoted” text , with  spacing",
		"no punctuation",
		"already clean.",
		"step 1. do this ;then that",
		"",
		"U.S. housing",
		"ellipsis trail...",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestExpandAbbreviations(t *testing.T) {
	n := New()

	got := n.ExpandAbbreviations("what is LTV?")
	if got != "what is loan-to-value?" {
		t.Errorf("LTV not expanded: %q", got)
	}

	got = n.ExpandAbbreviations("the dti and ltv limits")
	if got != "the debt-to-income and loan-to-value limits" {
		t.Errorf("lowercase abbreviations not expanded: %q", got)
	}
}

func TestExpandAbbreviationsWordBoundary(t *testing.T) {
	n := New()

	// Partial words must not be rewritten.
	got := n.ExpandAbbreviations("the ltva field and the internal flag")
	if got != "the ltva field and the internal flag" {
		t.Errorf("partial word corrupted: %q", got)
	}
}

func TestExpandAbbreviationsCustomTable(t *testing.T) {
	n := NewWithAbbreviations(map[string]string{"qa": "quality assurance"})

	if got := n.ExpandAbbreviations("run QA now"); got != "run quality assurance now" {
		t.Errorf("custom table not applied: %q", got)
	}
	if got := n.ExpandAbbreviations("what is ltv"); got != "what is ltv" {
		t.Errorf("default table leaked into custom normalizer: %q", got)
	}
}
