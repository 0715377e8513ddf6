package normalize

// DefaultAbbreviations returns the mortgage-domain abbreviation table.
// Callers may mutate the returned map before passing it to
// NewWithAbbreviations; each call returns a fresh copy.
func DefaultAbbreviations() map[string]string {
	return map[string]string{
		"mtg":  "mortgage",
		"prop": "property",
		"pmt":  "payment",
		"int":  "interest",
		"prin": "principal",
		"refi": "refinance",
		"ltv":  "loan-to-value",
		"dti":  "debt-to-income",
		"arm":  "adjustable rate mortgage",
		"apr":  "annual percentage rate",
		"pmi":  "private mortgage insurance",
		"hoa":  "homeowners association",
		"reo":  "real estate owned",
		"mbs":  "mortgage-backed securities",
		"gse":  "government-sponsored enterprise",
	}
}
