package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/q2ls/cmd/q2ls/commands"
	"github.com/teranos/q2ls/config"
	"github.com/teranos/q2ls/logger"
)

var rootCmd = &cobra.Command{
	Use:   "q2ls",
	Short: "q2ls - Language server for QIIME 2 commands in shell scripts",
	Long: `q2ls - Language server for QIIME 2 commands embedded in shell scripts.

Provides completion, hover documentation, and diagnostics for qiime
invocations inside shell scripts, over the Language Server Protocol.

Available commands:
  serve     - Start the language server (stdio, TCP, or WebSocket)
  hierarchy - Inspect or export the command hierarchy
  version   - Show version information

Examples:
  q2ls serve                         # Serve LSP on stdio (editor default)
  q2ls serve --transport tcp         # Serve LSP on TCP
  q2ls hierarchy                     # Print the introspected command tree
  q2ls hierarchy --json > tree.json  # Export for --hierarchy-file`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Logs never go to stdout; on stdio transport it carries the LSP
		// wire protocol.
		if cfg.Log.File != "" {
			return logger.InitializeToFile(cfg.Log.File, verbosity)
		}
		return logger.Initialize(cfg.Log.JSON, verbosity)
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.HierarchyCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
