package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/finreg-tools/corepqa/internal/chunker"
	"github.com/finreg-tools/corepqa/internal/config"
	"github.com/finreg-tools/corepqa/internal/index"
)

func chunkConfig(cfg config.Config) chunker.Config {
	c := chunker.DefaultConfig()
	c.ChunkSize = cfg.ChunkSize
	c.ChunkOverlap = cfg.ChunkOverlap
	return c
}

// openStore loads the persisted index, building it from the reference
// document first when no snapshot exists yet.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*index.Store, error) {
	embedder := index.NewOpenAIEmbedder(cfg.EmbedAPIKey, cfg.EmbedBaseURL, cfg.EmbedModel)
	store := index.NewStore(embedder, cfg.QueryCacheTTL)

	if _, err := os.Stat(cfg.IndexPath); err == nil {
		if err := store.Load(cfg.IndexPath); err != nil {
			return nil, err
		}
		log.Info("index loaded", "path", cfg.IndexPath, "passages", store.Len())
		return store, nil
	}

	docPath, err := index.ResolveDocPath(cfg.DataPath, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if err := index.BuildFromFile(ctx, store, docPath, cfg.IndexPath, chunkConfig(cfg), log); err != nil {
		return nil, err
	}
	return store, nil
}
