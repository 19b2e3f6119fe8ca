package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/q2ls/config"
	"github.com/teranos/q2ls/errors"
	"github.com/teranos/q2ls/hierarchy"
	"github.com/teranos/q2ls/logger"
	"github.com/teranos/q2ls/server"
)

// ServeCmd starts the language server.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the language server",
	Long: `Start the language server on the chosen transport.

stdio is what editors spawn; TCP and WebSocket suit long-running setups
where clients connect to an already-running server.`,
	RunE: runServe,
}

var (
	serveTransport        string
	serveHost             string
	servePort             int
	serveCLIName          string
	serveHierarchyFile    string
	serveHierarchyCommand string
	serveDebounceMs       int
)

func init() {
	ServeCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "Transport: stdio, tcp, or ws")
	ServeCmd.Flags().StringVar(&serveHost, "host", "", "Listen host for tcp/ws (overrides config)")
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port for tcp/ws (overrides config)")
	ServeCmd.Flags().StringVar(&serveCLIName, "cli", "", "CLI executable name to assist (overrides config)")
	ServeCmd.Flags().StringVar(&serveHierarchyFile, "hierarchy-file", "", "Pre-exported hierarchy JSON (skips introspection)")
	ServeCmd.Flags().StringVar(&serveHierarchyCommand, "hierarchy-command", "", "Command producing hierarchy JSON on stdout")
	ServeCmd.Flags().IntVar(&serveDebounceMs, "debounce-ms", 0, "Edit-to-validation quiet period (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	applyServeFlags(cfg)

	gateway := newGateway(cfg)
	srv := server.New(server.Options{
		CLIName:       cfg.CLI.Name,
		Provider:      hierarchy.NewCachedProvider(gateway.BuildHierarchy),
		HelpProvider:  gateway.NewHelpProvider(),
		DebounceDelay: cfg.DebounceDelay(),
		Logger:        logger.Logger,
	})

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	switch serveTransport {
	case "stdio":
		return srv.RunStdio()
	case "tcp":
		return srv.RunTCP(address)
	case "ws", "websocket":
		return srv.RunWebSocket(address)
	default:
		return errors.Newf("unknown transport %q (want stdio, tcp, or ws)", serveTransport)
	}
}

// applyServeFlags overlays command-line flags onto the loaded config.
func applyServeFlags(cfg *config.Config) {
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveCLIName != "" {
		cfg.CLI.Name = serveCLIName
	}
	if serveHierarchyFile != "" {
		cfg.Hierarchy.File = serveHierarchyFile
	}
	if serveHierarchyCommand != "" {
		cfg.Hierarchy.Command = serveHierarchyCommand
	}
	if serveDebounceMs > 0 {
		cfg.Diagnostics.DebounceMs = serveDebounceMs
	}
}

// newGateway builds the CLI introspection gateway from configuration.
func newGateway(cfg *config.Config) *hierarchy.Gateway {
	gateway := hierarchy.NewGateway(cfg.CLI.Name, logger.Logger, cfg.Hierarchy.HelpRatePerSecond)
	gateway.HierarchyFile = cfg.Hierarchy.File
	if cfg.Hierarchy.Command != "" {
		gateway.IntrospectCommand = cfg.Hierarchy.Command
	}
	if timeout := cfg.BuildTimeout(); timeout > 0 {
		gateway.BuildTimeout = timeout
	} else {
		gateway.BuildTimeout = 2 * time.Minute
	}
	return gateway
}
