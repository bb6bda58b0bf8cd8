package corep

import (
	"fmt"
	"strings"
	"unicode"
)

// Validate repairs and checks a record against the Own Funds schema. It is
// a total function: it never panics and always returns a record whose
// marshaled form matches the wire contract, with every problem surfaced as
// a warning. Values are flagged, never corrected: the validator does not
// invent financial figures.
//
// Citation checks are suppressed when knownRuleIDs is empty: no retrieval
// context means nothing to check against, not that everything is valid.
func Validate(rec Record, knownRuleIDs []string) Record {
	known := make(map[string]struct{}, len(knownRuleIDs))
	for _, id := range knownRuleIDs {
		known[id] = struct{}{}
	}

	warnings := append([]string(nil), rec.Warnings...)
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	conceptual := rec.Conceptual()

	// Missing values matter only for reporting scenarios; an explanatory
	// answer legitimately carries no numbers. A present wrong-typed value
	// counts as missing here because the type pass below nulls it, which
	// keeps validation idempotent.
	if !conceptual {
		for _, name := range FieldNames {
			f := rec.Field(name)
			if !f.Valid {
				warn("%s is missing or not provided.", name)
			}
		}
	}

	// Type and sign. Wrong types are coerced to null; negative values are
	// flagged but kept as-is.
	for _, name := range FieldNames {
		f := rec.Field(name)
		if f.Defined && !f.Null && !f.Valid {
			warn("%s must be numeric or null.", name)
			*f = NullNum()
			continue
		}
		if f.Valid && f.Value < 0 {
			warn("%s cannot be negative.", name)
		}
	}

	// Logical consistency. Exact equality: inputs are exact monetary
	// figures from the source text, not computed floats.
	if rec.Tier1.Valid && rec.Tier2.Valid && rec.Total.Valid {
		if rec.Total.Value != rec.Tier1.Value+rec.Tier2.Value {
			warn("Total_own_funds does not equal Tier1_capital + Tier2_capital.")
		}
	}

	// source_rules shape.
	if !rec.SourceRules.Defined || !rec.SourceRules.Valid {
		rec.SourceRules = SourceRules{Defined: true, Valid: true}
		warn("source_rules missing or invalid; reset to empty.")
	}
	fields := make(map[string][]string, len(rec.SourceRules.Fields))
	for k, ids := range rec.SourceRules.Fields {
		fields[k] = ids
	}
	for _, name := range FieldNames {
		if fields[name] == nil {
			fields[name] = []string{}
		}
	}
	rec.SourceRules.Fields = fields

	// audit_log shape.
	if !rec.AuditLog.Defined || !rec.AuditLog.Valid {
		rec.AuditLog = AuditLog{Defined: true, Valid: true}
		warn("audit_log missing or invalid; reset to empty.")
	}

	// audit_log entries. Non-objects are dropped; an unknown citation is
	// advisory and the entry stays.
	entries := make([]AuditEntry, 0, len(rec.AuditLog.Entries))
	for _, e := range rec.AuditLog.Entries {
		if !e.Object {
			warn("audit_log contains non-object entry.")
			continue
		}
		if len(known) > 0 && e.Rule != "" {
			if _, ok := known[e.Rule]; !ok {
				warn("audit_log cites unknown rule id: %s", e.Rule)
			}
		}
		entries = append(entries, e)
	}
	rec.AuditLog.Entries = entries

	if !rec.Answer.Defined {
		rec.Answer = NullStr()
		warn("answer missing; set to null.")
	}

	// Citation validity per field.
	if len(known) > 0 {
		for _, name := range FieldNames {
			for _, id := range rec.SourceRules.Fields[name] {
				if _, ok := known[id]; !ok {
					warn("%s cites unknown rule id: %s", name, id)
				}
			}
		}
	}

	rec.Warnings = dedup(warnings)
	return rec
}

// Normalize nulls the numeric fields when the question contains no digit.
// A digit-free question is treated as conceptual, and conceptual answers
// must not carry numbers the model may have fabricated.
func Normalize(rec Record, question string) Record {
	if strings.ContainsFunc(question, unicode.IsDigit) {
		return rec
	}
	rec.CET1 = NullNum()
	rec.Tier1 = NullNum()
	rec.Tier2 = NullNum()
	rec.Total = NullNum()
	return rec
}

// dedup collapses duplicate warnings, keeping first-seen order.
func dedup(ws []string) []string {
	seen := make(map[string]struct{}, len(ws))
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
