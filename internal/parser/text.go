package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/finreg-tools/corepqa/internal/document"
)

// TextParser handles plain text files. Each blank-line-separated paragraph
// becomes a section; plain text carries no page metadata.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]document.Section, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sections []document.Section
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			sections = append(sections, document.Section{Text: current.String()})
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}
