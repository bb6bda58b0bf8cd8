// Package chunker splits parsed sections into retrievable passages with
// stable {source, page, chunk} metadata for the audit trail.
package chunker

import (
	"strings"

	"github.com/finreg-tools/corepqa/internal/document"
)

// Config controls chunking behavior. Sizes are in characters (runes):
// regulatory text retrieval works on character windows, not tokens.
type Config struct {
	ChunkSize    int // Target chunk size in characters.
	ChunkOverlap int // Overlap between consecutive chunks in characters.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns the retrieval defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1200,
		ChunkOverlap: 200,
		MinChunk:     40,
	}
}

// separators are tried in order when a piece of text exceeds the chunk
// size: paragraph breaks first, then lines, sentences, words.
var separators = []string{"\n\n", "\n", ". ", " "}

// ChunkSections splits sections into passages, numbering chunks
// sequentially across the whole document so every passage gets a unique,
// stable chunk id.
func ChunkSections(sections []document.Section, source string, cfg Config) []document.Passage {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1200
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 40
	}

	var passages []document.Passage
	index := 0

	for _, sec := range sections {
		text := strings.TrimSpace(sec.Text)
		if text == "" {
			continue
		}
		for _, part := range Split(text, cfg) {
			if runeLen(part) < cfg.MinChunk {
				continue
			}
			passages = append(passages, document.Passage{
				Text:   part,
				Source: source,
				Page:   sec.Page,
				Chunk:  index,
			})
			index++
		}
	}

	return passages
}

// Split breaks text into pieces of at most cfg.ChunkSize characters,
// preferring paragraph and sentence boundaries, with cfg.ChunkOverlap
// characters carried between consecutive pieces.
func Split(text string, cfg Config) []string {
	return splitRecursive(text, separators, cfg)
}

func splitRecursive(text string, seps []string, cfg Config) []string {
	if runeLen(text) <= cfg.ChunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return hardSplit(text, cfg)
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return splitRecursive(text, seps[1:], cfg)
	}

	// Re-attach sentence separators so chunks read naturally.
	if sep == ". " {
		for i := 0; i < len(parts)-1; i++ {
			parts[i] += "."
		}
	}

	var result []string
	var current strings.Builder
	currentLen := 0
	joiner := sep
	if sep == ". " {
		joiner = " "
	}

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			result = append(result, chunk)
		}
		current.Reset()
		currentLen = 0
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		partLen := runeLen(part)

		// A single part that exceeds the target is split at the next
		// separator level.
		if partLen > cfg.ChunkSize {
			flush()
			result = append(result, splitRecursive(part, seps[1:], cfg)...)
			continue
		}

		if currentLen > 0 && currentLen+runeLen(joiner)+partLen > cfg.ChunkSize {
			prev := current.String()
			flush()
			// Seed the next chunk with trailing context, unless that would
			// push it past the size target again.
			overlap := tailChars(prev, cfg.ChunkOverlap)
			if overlap != "" && runeLen(overlap)+runeLen(joiner)+partLen <= cfg.ChunkSize {
				current.WriteString(overlap)
				currentLen = runeLen(overlap)
			}
		}

		if currentLen > 0 {
			current.WriteString(joiner)
			currentLen += runeLen(joiner)
		}
		current.WriteString(part)
		currentLen += partLen
	}
	flush()

	return result
}

// hardSplit cuts text into fixed windows when no separator helps.
func hardSplit(text string, cfg Config) []string {
	runes := []rune(text)
	step := cfg.ChunkSize - cfg.ChunkOverlap
	if step <= 0 {
		step = cfg.ChunkSize
	}
	var result []string
	for start := 0; start < len(runes); start += step {
		end := min(start+cfg.ChunkSize, len(runes))
		result = append(result, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return result
}

// tailChars returns up to n trailing characters of text, starting at a
// word boundary.
func tailChars(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return ""
	}
	tail := string(runes[len(runes)-n:])
	if i := strings.IndexByte(tail, ' '); i >= 0 {
		tail = tail[i+1:]
	}
	return strings.TrimSpace(tail)
}

func runeLen(s string) int {
	return len([]rune(s))
}
