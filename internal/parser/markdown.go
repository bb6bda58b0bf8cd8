package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/finreg-tools/corepqa/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Text under each
// heading becomes one section titled with the heading path, so passages
// keep their structural context.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) ([]document.Section, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var sections []document.Section

	// headings tracks the current heading path, indexed by level.
	type heading struct {
		level int
		title string
	}
	var path []heading
	var currentText bytes.Buffer

	titleOf := func() string {
		parts := make([]string, 0, len(path))
		for _, h := range path {
			parts = append(parts, h.title)
		}
		return strings.Join(parts, " > ")
	}
	flush := func() {
		t := strings.TrimSpace(currentText.String())
		if t != "" {
			sections = append(sections, document.Section{Title: titleOf(), Text: t})
		}
		currentText.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flush()
			for len(path) > 0 && path[len(path)-1].level >= node.Level {
				path = path[:len(path)-1]
			}
			path = append(path, heading{level: node.Level, title: string(node.Text(src))})
		default:
			t := extractText(n, src)
			if t != "" {
				if currentText.Len() > 0 {
					currentText.WriteString("\n\n")
				}
				currentText.WriteString(t)
			}
		}
	}
	flush()

	return sections, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	// Also handle inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
