package corep

import "strings"

// ExcerptLimit bounds audit excerpt length in runes.
const ExcerptLimit = 240

// Enrich back-fills the excerpt of every well-formed audit entry whose
// cited rule is present in lookup. Purely additive: entries are never
// removed or reordered, and unknown or malformed entries are left for the
// validator to report.
func Enrich(rec Record, lookup map[string]string) Record {
	if len(rec.AuditLog.Entries) == 0 {
		return rec
	}
	entries := append([]AuditEntry(nil), rec.AuditLog.Entries...)
	for i := range entries {
		e := &entries[i]
		if !e.Object || e.Rule == "" {
			continue
		}
		text, ok := lookup[e.Rule]
		if !ok {
			continue
		}
		excerpt := strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
		e.Excerpt = Truncate(excerpt, ExcerptLimit)
	}
	rec.AuditLog.Entries = entries
	return rec
}
