package record

// longFormContexts maps the verbose context labels found in older corpus
// files to their canonical short labels.
var longFormContexts = map[string]string{
	"Mortgage Terminology and Definitions": "terminology",
	"Property and Real Estate":             "property",
	"Government Programs and Regulations":  "government",
	"Fannie Mae Products and Programs":     "fannie_products",
	"Loan Origination and Underwriting":    "origination",
	"Multifamily and Commercial":           "multifamily",
	"Data Dictionary and Attributes":       "data_dictionary",
	"Financial Terms and Calculations":     "financial",
	"Secondary Market and Securities":      "securities",
	"Technology and Digital Services":      "technology",
	"General Mortgage Knowledge":           "general",
}

// canonicalContexts is the set of short labels that pass through unchanged,
// so canonicalization is idempotent.
var canonicalContexts = func() map[string]struct{} {
	set := make(map[string]struct{}, len(longFormContexts))
	for _, short := range longFormContexts {
		set[short] = struct{}{}
	}
	return set
}()

// CanonicalContext folds a context label to its canonical short form.
// Empty input stays empty; an unrecognized label falls back to
// DefaultContext.
func CanonicalContext(label string) string {
	if label == "" {
		return ""
	}
	if short, ok := longFormContexts[label]; ok {
		return short
	}
	if _, ok := canonicalContexts[label]; ok {
		return label
	}
	return DefaultContext
}
