// Package corep defines the structured extraction record for COREP Own
// Funds reporting and the repair pipeline that turns untrusted model output
// into a schema-conformant, warning-annotated result.
package corep

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Number is a numeric field decoded from untrusted JSON. It distinguishes
// an absent key, an explicit null, a well-typed number, and a wrong-typed
// value, so the validator can warn precisely instead of losing information
// at decode time.
type Number struct {
	Defined bool // key was present in the JSON object
	Null    bool // value was an explicit null
	Valid   bool // value decoded as a JSON number
	Value   float64
}

// Num returns a well-typed numeric field value.
func Num(v float64) Number {
	return Number{Defined: true, Valid: true, Value: v}
}

// NullNum returns an explicit-null numeric field value.
func NullNum() Number {
	return Number{Defined: true, Null: true}
}

// Text is a string field decoded from untrusted JSON. Anything that is not
// a string (including null) marshals back as null.
type Text struct {
	Defined bool
	Valid   bool
	Value   string
}

// Str returns a well-typed string field value.
func Str(s string) Text {
	return Text{Defined: true, Valid: true, Value: s}
}

// NullStr returns an explicit-null string field value.
func NullStr() Text {
	return Text{Defined: true}
}

// SourceRules maps each numeric field name to the rule identifiers cited
// for its value. Valid is false when the model returned something other
// than a JSON object.
type SourceRules struct {
	Defined bool
	Valid   bool
	Fields  map[string][]string
}

// AuditEntry ties one populated field to a cited rule and its excerpt.
// Object is false for entries the model emitted as non-objects; the
// validator drops those with a warning.
type AuditEntry struct {
	Object  bool
	Field   string
	Rule    string
	Excerpt string
}

// AuditLog is the ordered provenance trail of an extraction.
type AuditLog struct {
	Defined bool
	Valid   bool
	Entries []AuditEntry
}

// Record is the canonical structured extraction result. Every field slot is
// always present; the validator guarantees the marshaled form matches the
// wire contract regardless of what the model produced.
type Record struct {
	Answer      Text
	CET1        Number
	Tier1       Number
	Tier2       Number
	Total       Number
	SourceRules SourceRules
	AuditLog    AuditLog
	Warnings    []string
}

// Field returns a pointer to the numeric field with the given schema name,
// or nil for an unknown name.
func (r *Record) Field(name string) *Number {
	switch name {
	case "CET1_capital":
		return &r.CET1
	case "Tier1_capital":
		return &r.Tier1
	case "Tier2_capital":
		return &r.Tier2
	case "Total_own_funds":
		return &r.Total
	}
	return nil
}

// Conceptual reports whether the record carries an explanatory answer,
// which exempts it from missing-value warnings.
func (r *Record) Conceptual() bool {
	return r.Answer.Valid && strings.TrimSpace(r.Answer.Value) != ""
}

// UnmarshalJSON decodes a model response leniently: each field tolerates a
// wrong type and records what it saw. Only a top-level non-object fails.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("decode record: expected object, got null")
	}

	*r = Record{}

	if v, ok := raw["answer"]; ok {
		r.Answer = decodeText(v)
	}
	for _, name := range FieldNames {
		if v, ok := raw[name]; ok {
			*r.Field(name) = decodeNumber(v)
		}
	}

	if v, ok := raw["source_rules"]; ok {
		r.SourceRules.Defined = true
		var m map[string]json.RawMessage
		if err := json.Unmarshal(v, &m); err == nil {
			r.SourceRules.Valid = true
			r.SourceRules.Fields = make(map[string][]string, len(m))
			for k, rv := range m {
				var ids []string
				if err := json.Unmarshal(rv, &ids); err == nil {
					r.SourceRules.Fields[k] = ids
				}
				// Non-list values drop to the zero slice; the validator
				// resets the four schema fields to empty lists anyway.
			}
		}
	}

	if v, ok := raw["audit_log"]; ok {
		r.AuditLog.Defined = true
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err == nil {
			r.AuditLog.Valid = true
			for _, item := range items {
				r.AuditLog.Entries = append(r.AuditLog.Entries, decodeAuditEntry(item))
			}
		}
	}

	if v, ok := raw["warnings"]; ok {
		var ws []string
		if err := json.Unmarshal(v, &ws); err == nil {
			r.Warnings = ws
		}
	}

	return nil
}

func decodeNumber(raw json.RawMessage) Number {
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return Number{Defined: true}
	}
	if f == nil {
		return NullNum()
	}
	return Num(*f)
}

func decodeText(raw json.RawMessage) Text {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return Text{Defined: true}
	}
	return Str(*s)
}

func decodeAuditEntry(raw json.RawMessage) AuditEntry {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return AuditEntry{}
	}
	e := AuditEntry{Object: true}
	e.Field = decodeText(obj["field"]).Value
	e.Rule = decodeText(obj["rule"]).Value
	e.Excerpt = decodeText(obj["excerpt"]).Value
	return e
}

type auditEntryJSON struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Excerpt string `json:"excerpt"`
}

type recordJSON struct {
	Answer      *string             `json:"answer"`
	CET1        *float64            `json:"CET1_capital"`
	Tier1       *float64            `json:"Tier1_capital"`
	Tier2       *float64            `json:"Tier2_capital"`
	Total       *float64            `json:"Total_own_funds"`
	SourceRules map[string][]string `json:"source_rules"`
	AuditLog    []auditEntryJSON    `json:"audit_log"`
	Warnings    []string            `json:"warnings"`
}

// MarshalJSON emits the exact wire contract: all keys present, numbers or
// null, source_rules as an object of lists, audit_log and warnings as
// arrays (never null).
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Answer:      r.Answer.Ptr(),
		CET1:        r.CET1.Ptr(),
		Tier1:       r.Tier1.Ptr(),
		Tier2:       r.Tier2.Ptr(),
		Total:       r.Total.Ptr(),
		SourceRules: map[string][]string{},
		AuditLog:    []auditEntryJSON{},
		Warnings:    []string{},
	}
	for k, ids := range r.SourceRules.Fields {
		if ids == nil {
			ids = []string{}
		}
		out.SourceRules[k] = ids
	}
	for _, e := range r.AuditLog.Entries {
		out.AuditLog = append(out.AuditLog, auditEntryJSON{
			Field:   e.Field,
			Rule:    e.Rule,
			Excerpt: e.Excerpt,
		})
	}
	out.Warnings = append(out.Warnings, r.Warnings...)
	return json.Marshal(out)
}

// Ptr returns the numeric value, or nil when the field is null.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Ptr returns the string value, or nil when the field is null.
func (t Text) Ptr() *string {
	if !t.Valid {
		return nil
	}
	v := t.Value
	return &v
}

// Truncate returns at most n runes of s. Excerpts and fallback answers use
// rune counts so multi-byte characters are never split.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
