// Package cli wires the corepqa commands: build the passage index, serve
// the HTTP API, or answer a single question from the terminal.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "corepqa",
	Short: "COREP Own Funds reporting assistant",
	Long: `corepqa answers natural-language questions about UK PRA COREP
"Own Funds" regulatory reporting. It retrieves relevant passages from an
indexed reference document, asks a language model to extract structured
fields with citations, and validates the result before returning it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("corepqa v0.1.0")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(askCmd)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
