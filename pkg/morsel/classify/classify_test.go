package classify

import (
	"strings"
	"testing"
)

func TestCategoryDefaultRuleset(t *testing.T) {
	c := New(DefaultRuleset())

	cases := []struct {
		instruction string
		response    string
		want        string
	}{
		{
			"Tell me about HomeReady eligibility",
			"HomeReady allows lower income borrowers to qualify.",
			"fannie_products",
		},
		{
			"Describe the appraisal process",
			"An appraisal establishes the market worth of the property.",
			"property",
		},
		{
			"Summarize FHA oversight",
			"FHA programs follow federal regulation and compliance rules.",
			"government",
		},
		{
			"Tell me about MBS pooling",
			"Securitization turns pools of collateral into tradeable MBS.",
			"securities",
		},
	}
	for _, tc := range cases {
		got := c.Category(tc.instruction, tc.response)
		if got != tc.want {
			t.Errorf("Category(%q, ...) = %q, want %q", tc.instruction, got, tc.want)
		}
	}
}

func TestCategoryInstructionOutweighsResponse(t *testing.T) {
	c := New(Ruleset{
		Categories: []Category{
			{Name: "alpha", Keywords: []string{"apple"}},
			{Name: "beta", Keywords: []string{"banana"}},
		},
	})

	// One instruction hit (weight 3) beats one response hit (weight 2).
	got := c.Category("the apple question", "the banana answer")
	if got != "alpha" {
		t.Errorf("instruction hit should dominate, got %q", got)
	}

	// Two response hits (4) beat one instruction hit (3).
	got = c.Category("the apple question", "banana and banana again")
	if got != "beta" {
		t.Errorf("two response hits should win, got %q", got)
	}
}

func TestCategoryTieGoesToFirstDeclared(t *testing.T) {
	c := New(Ruleset{
		Categories: []Category{
			{Name: "first", Keywords: []string{"shared"}},
			{Name: "second", Keywords: []string{"shared"}},
		},
	})

	if got := c.Category("a shared keyword", ""); got != "first" {
		t.Errorf("tie should resolve to first-declared category, got %q", got)
	}
}

func TestCategoryFallbacks(t *testing.T) {
	c := New(Ruleset{
		Default:    "misc",
		Categories: []Category{{Name: "colors", Keywords: []string{"crimson"}}},
	})

	cases := []struct {
		instruction string
		response    string
		want        string
	}{
		{"What is a zorp?", "Nobody knows.", "terminology"},
		{"Describe the zorp element", "It has data type string.", "data_dictionary"},
		{"Tell me about this company", "Fannie Mae buys home borrowings.", "fannie_products"},
		{"Tell me something", "Nothing matches here.", "misc"},
	}
	for _, tc := range cases {
		got := c.Category(tc.instruction, tc.response)
		if got != tc.want {
			t.Errorf("Category(%q, %q) = %q, want %q", tc.instruction, tc.response, got, tc.want)
		}
	}
}

func TestCategoryDeterministic(t *testing.T) {
	c := New(DefaultRuleset())

	first := c.Category("Tell me about escrow and amortization", "PITI includes taxes and insurance.")
	for i := 0; i < 50; i++ {
		got := c.Category("Tell me about escrow and amortization", "PITI includes taxes and insurance.")
		if got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}

func TestQuestionType(t *testing.T) {
	c := New(DefaultRuleset())

	cases := []struct {
		instruction string
		want        string
	}{
		{"What is HomeReady?", "definition"},
		{"What does DTI stand for?", "definition"},
		{"Define amortization", "definition"},
		{"How do I qualify for a loan?", "procedural"},
		{"Why does the rate change?", "explanatory"},
		{"When is the payment due?", "temporal"},
		{"Who services the loan?", "identity"},
		{"Compare FHA and conventional loans", "comparison"},
		{"List the required documents", "enumeration"},
		{"Please calculate the monthly payment", "calculation"},
		{"Tell me about escrow", "general"},
		{"", "general"},
	}
	for _, tc := range cases {
		if got := c.QuestionType(tc.instruction); got != tc.want {
			t.Errorf("QuestionType(%q) = %q, want %q", tc.instruction, got, tc.want)
		}
	}
}

func TestResponseType(t *testing.T) {
	c := New(DefaultRuleset())

	standard := "Mortgage insurance protects the lender when the borrower stops paying and is usually required once equity in the home falls below twenty percent of the appraised value of the home."
	list := "The borrower must provide these documents before closing:\n- pay stubs\n- bank statements\n- tax returns\nand the lender reviews them while processing the request for credit."
	detailed := strings.Repeat("The servicer reviews the escrow account every year and adjusts the monthly deposit amount. ", 7)

	cases := []struct {
		response string
		want     string
	}{
		{"Definition: the ratio of the borrowing to the home value.", "definition"},
		{"A mortgage is a lien against real property.", "definition"},
		{"Step 1. Gather documents. Step 2. Submit them.", "step_by_step"},
		{"Lenders check ratios, for example DTI and LTV.", "example_based"},
		{"Yes.", "brief"},
		{detailed, "detailed"},
		{list, "list"},
		{standard, "standard"},
	}
	for _, tc := range cases {
		if got := c.ResponseType(tc.response); got != tc.want {
			t.Errorf("ResponseType(%.40q...) = %q, want %q", tc.response, got, tc.want)
		}
	}
}
