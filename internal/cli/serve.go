package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finreg-tools/corepqa/internal/api"
	"github.com/finreg-tools/corepqa/internal/config"
	"github.com/finreg-tools/corepqa/internal/extract"
	"github.com/finreg-tools/corepqa/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}

		llm := extract.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.ModelName, cfg.LLMTimeout)
		pipe := pipeline.New(store, llm, cfg.RetrieveK, cfg.QueryCacheTTL, log)
		srv := api.NewServer(pipe, llm, log, cfg)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 180 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Info("shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
			cancel()
		}()

		log.Info("starting corepqa", "port", cfg.Port, "model", cfg.ModelName)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}
