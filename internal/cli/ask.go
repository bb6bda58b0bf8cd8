package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finreg-tools/corepqa/internal/config"
	"github.com/finreg-tools/corepqa/internal/extract"
	"github.com/finreg-tools/corepqa/internal/format"
	"github.com/finreg-tools/corepqa/internal/pipeline"
)

var askShowContext bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question from the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx := context.Background()
		store, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}

		llm := extract.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.ModelName, cfg.LLMTimeout)
		pipe := pipeline.New(store, llm, cfg.RetrieveK, 0, log)

		result, err := pipe.Run(ctx, args[0])
		if err != nil {
			return err
		}

		out := map[string]any{
			"structured_output":  result.Record,
			"summary":            format.Summary(result.Record),
			"retrieved_rule_ids": result.RuleIDs,
		}
		if askShowContext {
			out["retrieved_context"] = result.Context
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "include the retrieved context in the output")
}
