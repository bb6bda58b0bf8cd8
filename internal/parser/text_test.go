package parser

import (
	"strings"
	"testing"
)

func TestTextParser_Paragraphs(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\n\nThird paragraph.\n"

	p := &TextParser{}
	sections, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].Text != "First paragraph line one.\nFirst paragraph line two." {
		t.Errorf("unexpected first section: %q", sections[0].Text)
	}
	if sections[1].Text != "Second paragraph." {
		t.Errorf("unexpected second section: %q", sections[1].Text)
	}
	if sections[2].Text != "Third paragraph." {
		t.Errorf("unexpected third section: %q", sections[2].Text)
	}
	if sections[0].Page != 0 {
		t.Errorf("expected no page metadata for plain text, got %d", sections[0].Page)
	}
}

func TestTextParser_Empty(t *testing.T) {
	p := &TextParser{}
	sections, err := p.Parse(strings.NewReader("   \n\n  \n"), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sections) != 0 {
		t.Errorf("expected no sections for whitespace input, got %#v", sections)
	}
}
