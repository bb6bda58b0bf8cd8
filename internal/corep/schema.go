package corep

// TemplateName identifies the reporting template this service extracts.
const TemplateName = "COREP Own Funds (Prototype)"

// FieldNames lists the four numeric fields of the Own Funds template, in
// template order. This is the complete numeric vocabulary of a Record.
var FieldNames = []string{
	"CET1_capital",
	"Tier1_capital",
	"Tier2_capital",
	"Total_own_funds",
}

// FieldIDs maps each field name to its template row identifier.
var FieldIDs = map[string]string{
	"CET1_capital":    "OF.CET1",
	"Tier1_capital":   "OF.T1",
	"Tier2_capital":   "OF.T2",
	"Total_own_funds": "OF.TOTAL",
}
