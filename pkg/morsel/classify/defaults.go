package classify

// DefaultRuleset returns the mortgage-domain category tables. Order is
// the tie-break priority.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Default: "general",
		Categories: []Category{
			{
				Name: "terminology",
				Keywords: []string{
					"define", "definition", "what is", "what are", "meaning of", "refer to",
					"mortgage", "loan", "interest rate", "payment", "principal", "refinance",
				},
			},
			{
				Name: "fannie_products",
				Keywords: []string{
					"homeready", "refinow", "homestyle", "mh advantage", "homepath",
					"desktop underwriter", "du", "collateral underwriter", "day 1 certainty",
					"fannie mae connect", "selling guide", "servicing marketplace",
				},
			},
			{
				Name: "origination",
				Keywords: []string{
					"underwriting", "origination", "qualification", "approval", "credit score",
					"debt-to-income", "dti", "loan-to-value", "ltv", "down payment",
					"closing", "application", "urla", "1003",
				},
			},
			{
				Name: "property",
				Keywords: []string{
					"property", "real estate", "appraisal", "valuation", "deed", "title",
					"foreclosure", "reo", "condominium", "single-family", "multifamily",
					"manufactured housing", "units",
				},
			},
			{
				Name: "financial",
				Keywords: []string{
					"piti", "escrow", "points", "fees", "rate lock", "buydown", "amortization",
					"principal", "interest", "taxes", "insurance", "payment", "balance",
				},
			},
			{
				Name: "government",
				Keywords: []string{
					"fha", "va", "usda", "fhfa", "hud", "federal", "government",
					"regulation", "compliance", "oversight", "guidelines", "requirements",
				},
			},
			{
				Name: "multifamily",
				Keywords: []string{
					"multifamily", "commercial", "dus", "delegated underwriting",
					"apartment", "rental", "investment property", "cap rate", "noi",
					"debt service coverage", "dscr",
				},
			},
			{
				Name: "data_dictionary",
				Keywords: []string{
					"data type", "allowable values", "field", "attribute", "element",
					"number", "date", "text", "indicator", "flag", "code",
				},
			},
			{
				Name: "securities",
				Keywords: []string{
					"mbs", "mortgage-backed securities", "umbs", "uniform mortgage-backed",
					"securitization", "tba", "secondary market", "pooling", "issuance",
				},
			},
			{
				Name: "technology",
				Keywords: []string{
					"digital", "technology", "online", "platform", "system", "software",
					"automated", "electronic", "api", "integration", "portal",
				},
			},
		},
	}
}
