package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/finreg-tools/corepqa/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraphs between heading-styled
// paragraphs become one section titled with the heading path.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) ([]document.Section, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "corepqa-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	type heading struct {
		level int
		title string
	}
	var path []heading
	var sections []document.Section
	var currentText strings.Builder

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

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		level := docxHeadingLevel(para)
		text := docxParagraphText(para)

		if level > 0 && text != "" {
			flush()
			for len(path) > 0 && path[len(path)-1].level >= level {
				path = path[:len(path)-1]
			}
			path = append(path, heading{level: level, title: text})
		} else if text != "" {
			if currentText.Len() > 0 {
				currentText.WriteString("\n\n")
			}
			currentText.WriteString(text)
		}
	}
	flush()

	return sections, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level, names := range [][2]string{
		{"Heading1", "heading 1"},
		{"Heading2", "heading 2"},
		{"Heading3", "heading 3"},
		{"Heading4", "heading 4"},
		{"Heading5", "heading 5"},
		{"Heading6", "heading 6"},
	} {
		if strings.EqualFold(style, names[0]) || strings.EqualFold(style, names[1]) {
			return level + 1
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
