package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/finreg-tools/corepqa/internal/chunker"
	"github.com/finreg-tools/corepqa/internal/document"
	"github.com/finreg-tools/corepqa/internal/parser"
)

// DefaultDocument is the reference annex looked for when no explicit path
// is configured.
const DefaultDocument = "Annex_2.pdf"

// ResolveDocPath picks the reference document to index.
// Priority: explicit configured path, the default annex in dataDir, then
// the first supported file in dataDir.
func ResolveDocPath(configured, dataDir string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	defaultPath := filepath.Join(dataDir, DefaultDocument)
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath, nil
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return "", fmt.Errorf("read data dir: %w", err)
	}
	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		candidates = append(candidates, e.Name())
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no supported reference documents in %s", dataDir)
	}
	sort.Strings(candidates)
	return filepath.Join(dataDir, candidates[0]), nil
}

// IngestFile parses and chunks one reference document into passages with
// provenance metadata.
func IngestFile(path string, cfg chunker.Config, log *slog.Logger) ([]document.Passage, error) {
	filename := filepath.Base(path)
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	sections, err := p.Parse(f, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	passages := chunker.ChunkSections(sections, filename, cfg)
	log.Info("document ingested",
		"file", filename,
		"sections", len(sections),
		"passages", len(passages),
	)
	return passages, nil
}

// BuildFromFile ingests a document, embeds its passages into the store,
// and persists the snapshot to indexPath.
func BuildFromFile(ctx context.Context, store *Store, docPath, indexPath string, cfg chunker.Config, log *slog.Logger) error {
	passages, err := IngestFile(docPath, cfg, log)
	if err != nil {
		return err
	}
	if err := store.Build(ctx, passages); err != nil {
		return err
	}
	if err := store.Save(indexPath); err != nil {
		return err
	}
	log.Info("index built", "path", indexPath, "passages", store.Len())
	return nil
}
