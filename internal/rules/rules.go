// Package rules derives stable citation identifiers from passage
// provenance and assembles the retrieval context handed to the model.
package rules

import (
	"fmt"
	"strings"

	"github.com/finreg-tools/corepqa/internal/document"
)

// Lookup maps a rule identifier to its passage text. Scoped to one query's
// retrieved set; built fresh per request.
type Lookup map[string]string

// ID derives the citation identifier for a passage. Same metadata always
// yields the same id; missing page or chunk metadata falls back to "na".
func ID(p document.Passage) string {
	page := "na"
	if p.Page > 0 {
		page = fmt.Sprintf("%d", p.Page)
	}
	chunk := "na"
	if p.Chunk >= 0 {
		chunk = fmt.Sprintf("%d", p.Chunk)
	}
	return fmt.Sprintf("%s-p%s-c%s", p.Source, page, chunk)
}

// Bind walks passages in retrieval order and returns the rule lookup, the
// ordered rule ids, and the assembled context string. On an id collision
// the last passage's text wins; the id is listed once, at first position.
func Bind(passages []document.Passage) (Lookup, []string, string) {
	lookup := make(Lookup, len(passages))
	ids := make([]string, 0, len(passages))
	blocks := make([]string, 0, len(passages))

	for _, p := range passages {
		id := ID(p)
		if _, seen := lookup[id]; !seen {
			ids = append(ids, id)
		}
		lookup[id] = p.Text
		blocks = append(blocks, fmt.Sprintf("[RuleID: %s]\n%s", id, p.Text))
	}

	return lookup, ids, strings.Join(blocks, "\n\n")
}
