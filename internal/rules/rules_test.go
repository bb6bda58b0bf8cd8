package rules

import (
	"reflect"
	"strings"
	"testing"

	"github.com/finreg-tools/corepqa/internal/document"
)

func TestID_Format(t *testing.T) {
	tests := []struct {
		name    string
		passage document.Passage
		want    string
	}{
		{
			name:    "normal passage",
			passage: document.Passage{Source: "annex.pdf", Page: 3, Chunk: 7},
			want:    "annex.pdf-p3-c7",
		},
		{
			name:    "first chunk",
			passage: document.Passage{Source: "annex.pdf", Page: 1, Chunk: 0},
			want:    "annex.pdf-p1-c0",
		},
		{
			name:    "missing page",
			passage: document.Passage{Source: "notes.txt", Page: 0, Chunk: 2},
			want:    "notes.txt-pna-c2",
		},
		{
			name:    "missing chunk",
			passage: document.Passage{Source: "notes.txt", Page: 4, Chunk: -1},
			want:    "notes.txt-p4-cna",
		},
		{
			name:    "both missing",
			passage: document.Passage{Source: "notes.txt"},
			want:    "notes.txt-pna-c0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ID(tt.passage); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBind_ContextFormat(t *testing.T) {
	passages := []document.Passage{
		{Text: "CET1 consists of capital instruments.", Source: "annex.pdf", Page: 1, Chunk: 0},
		{Text: "Tier 2 includes subordinated loans.", Source: "annex.pdf", Page: 2, Chunk: 1},
	}

	lookup, ids, context := Bind(passages)

	wantIDs := []string{"annex.pdf-p1-c0", "annex.pdf-p2-c1"}
	if !reflect.DeepEqual(ids, wantIDs) {
		t.Fatalf("expected ids %v, got %v", wantIDs, ids)
	}
	if lookup["annex.pdf-p1-c0"] != passages[0].Text {
		t.Errorf("expected lookup to hold passage text, got %q", lookup["annex.pdf-p1-c0"])
	}

	blocks := strings.Split(context, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 context blocks, got %d: %q", len(blocks), context)
	}
	if !strings.HasPrefix(blocks[0], "[RuleID: annex.pdf-p1-c0]\n") {
		t.Errorf("unexpected block header: %q", blocks[0])
	}
	if !strings.HasSuffix(blocks[1], "Tier 2 includes subordinated loans.") {
		t.Errorf("unexpected block body: %q", blocks[1])
	}
}

func TestBind_DuplicateIDsCollapse(t *testing.T) {
	passages := []document.Passage{
		{Text: "first", Source: "annex.pdf", Page: 1, Chunk: 0},
		{Text: "second", Source: "annex.pdf", Page: 1, Chunk: 0},
	}

	lookup, ids, _ := Bind(passages)

	if len(ids) != 1 {
		t.Fatalf("expected duplicate id listed once, got %v", ids)
	}
	if lookup["annex.pdf-p1-c0"] != "second" {
		t.Errorf("expected last text to win, got %q", lookup["annex.pdf-p1-c0"])
	}
}

func TestBind_Empty(t *testing.T) {
	lookup, ids, context := Bind(nil)

	if len(lookup) != 0 {
		t.Errorf("expected empty lookup, got %v", lookup)
	}
	if len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
	if context != "" {
		t.Errorf("expected empty context, got %q", context)
	}
}
