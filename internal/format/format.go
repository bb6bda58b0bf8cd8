// Package format holds the presentation projections of a validated record.
// Pure functions, no validation logic: the record is already guaranteed
// schema-conformant by the time it gets here.
package format

import (
	"fmt"
	"strings"

	"github.com/finreg-tools/corepqa/internal/corep"
)

// notProvided is the display stand-in for a null numeric field.
const notProvided = "Not provided"

var displayNames = map[string]string{
	"CET1_capital":    "CET1 Capital",
	"Tier1_capital":   "Tier 1 Capital",
	"Tier2_capital":   "Tier 2 Capital",
	"Total_own_funds": "Total Own Funds",
}

// TableRow is one display row of the extracted figures.
type TableRow struct {
	Field string `json:"Field"`
	Value any    `json:"Value"`
}

// Table projects the four numeric fields into display rows.
func Table(rec corep.Record) []TableRow {
	rows := make([]TableRow, 0, len(corep.FieldNames))
	for _, name := range corep.FieldNames {
		rows = append(rows, TableRow{
			Field: displayNames[name],
			Value: displayValue(*rec.Field(name)),
		})
	}
	return rows
}

// TemplateRow is one row of the template-aligned extract.
type TemplateRow struct {
	Template  string   `json:"Template"`
	FieldID   string   `json:"Field_ID"`
	FieldName string   `json:"Field_Name"`
	Value     any      `json:"Value"`
	Sources   []string `json:"Sources"`
}

// TemplateExtract projects the record onto the reporting template rows,
// pairing each value with its field id and cited rules.
func TemplateExtract(rec corep.Record) []TemplateRow {
	rows := make([]TemplateRow, 0, len(corep.FieldNames))
	for _, name := range corep.FieldNames {
		sources := rec.SourceRules.Fields[name]
		if sources == nil {
			sources = []string{}
		}
		rows = append(rows, TemplateRow{
			Template:  corep.TemplateName,
			FieldID:   corep.FieldIDs[name],
			FieldName: name,
			Value:     displayValue(*rec.Field(name)),
			Sources:   sources,
		})
	}
	return rows
}

// Summary renders a short plain-text summary: the explanation when the
// record is conceptual, otherwise the figures and any warnings.
func Summary(rec corep.Record) string {
	var parts []string
	parts = append(parts, "COREP Own Funds Summary")

	if rec.Conceptual() {
		parts = append(parts, "Explanation:", rec.Answer.Value)
		return strings.Join(parts, "\n")
	}

	for _, name := range corep.FieldNames {
		parts = append(parts, fmt.Sprintf("- %s: %v", displayNames[name], displayValue(*rec.Field(name))))
	}

	if len(rec.Warnings) > 0 {
		parts = append(parts, "Warnings:")
		for _, w := range rec.Warnings {
			parts = append(parts, fmt.Sprintf("- %s", w))
		}
	}

	return strings.Join(parts, "\n")
}

// Warnings returns the record's warning set for display.
func Warnings(rec corep.Record) []string {
	if rec.Warnings == nil {
		return []string{}
	}
	return rec.Warnings
}

// Sources returns the per-field citation map for display.
func Sources(rec corep.Record) map[string][]string {
	if rec.SourceRules.Fields == nil {
		return map[string][]string{}
	}
	return rec.SourceRules.Fields
}

func displayValue(n corep.Number) any {
	if !n.Valid {
		return notProvided
	}
	return n.Value
}
