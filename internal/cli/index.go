package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finreg-tools/corepqa/internal/config"
	"github.com/finreg-tools/corepqa/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index [document]",
	Short: "Build the passage index from a reference document",
	Long: `Parse the reference document, split it into passages with provenance
metadata, embed them, and persist the index snapshot. With no argument the
document is resolved from DATA_PATH or the data directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg := config.Load()
		if cfg.EmbedAPIKey == "" {
			return fmt.Errorf("EMBED_API_KEY (or GROQ_API_KEY) is required")
		}

		docPath := cfg.DataPath
		if len(args) == 1 {
			docPath = args[0]
		}
		docPath, err := index.ResolveDocPath(docPath, cfg.DataDir)
		if err != nil {
			return err
		}

		embedder := index.NewOpenAIEmbedder(cfg.EmbedAPIKey, cfg.EmbedBaseURL, cfg.EmbedModel)
		store := index.NewStore(embedder, 0)

		ctx := context.Background()
		return index.BuildFromFile(ctx, store, docPath, cfg.IndexPath, chunkConfig(cfg), log)
	},
}
