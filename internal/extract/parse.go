package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/finreg-tools/corepqa/internal/corep"
)

// FallbackAnswerLimit bounds the raw text carried into a fallback record.
const FallbackAnswerLimit = 400

// InvalidJSONWarning labels records synthesized from an unparseable
// completion.
const InvalidJSONWarning = "LLM returned invalid JSON; raw answer provided"

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// ParseResponse turns a raw completion into a record. The response is
// trimmed and unwrapped from a markdown code fence if the model added one,
// then strictly JSON-decoded. Only well-formedness is checked here; the
// validator repairs the rest of the shape. On any decode failure
// the pipeline still gets a schema-conformant record: the raw text becomes
// a truncated answer and a single diagnostic warning is attached.
func ParseResponse(raw string) corep.Record {
	text := strings.TrimSpace(raw)
	if m := codeBlockRe.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}

	var rec corep.Record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return Fallback(strings.TrimSpace(raw))
	}
	return rec
}

// Fallback builds the degraded record used when the model's output cannot
// be decoded at all.
func Fallback(raw string) corep.Record {
	return corep.Record{
		Answer:      corep.Str(corep.Truncate(raw, FallbackAnswerLimit)),
		CET1:        corep.NullNum(),
		Tier1:       corep.NullNum(),
		Tier2:       corep.NullNum(),
		Total:       corep.NullNum(),
		SourceRules: corep.SourceRules{Defined: true, Valid: true, Fields: map[string][]string{}},
		AuditLog:    corep.AuditLog{Defined: true, Valid: true},
		Warnings:    []string{InvalidJSONWarning},
	}
}
