package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/q2ls/config"
	"github.com/teranos/q2ls/errors"
	"github.com/teranos/q2ls/hierarchy"
	"github.com/teranos/q2ls/logger"
)

// HierarchyCmd inspects or exports the command hierarchy.
var HierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Inspect or export the command hierarchy",
	Long: `Build the command hierarchy the server would use and print it.

Human-readable by default; --json emits the raw tree, suitable for
re-reading via --hierarchy-file or the hierarchy.file config key.`,
	RunE: runHierarchy,
}

var (
	hierarchyJSON    bool
	hierarchyFile    string
	hierarchyCommand string
)

func init() {
	HierarchyCmd.Flags().BoolVarP(&hierarchyJSON, "json", "j", false, "Output raw hierarchy JSON")
	HierarchyCmd.Flags().StringVar(&hierarchyFile, "hierarchy-file", "", "Read the hierarchy from this JSON file")
	HierarchyCmd.Flags().StringVar(&hierarchyCommand, "hierarchy-command", "", "Command producing hierarchy JSON on stdout")
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if hierarchyFile != "" {
		cfg.Hierarchy.File = hierarchyFile
	}
	if hierarchyCommand != "" {
		cfg.Hierarchy.Command = hierarchyCommand
	}

	gateway := newGateway(cfg)
	h, err := gateway.BuildHierarchy()
	if err != nil {
		return err
	}

	if hierarchyJSON {
		data, err := json.MarshalIndent(h, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode hierarchy")
		}
		fmt.Println(string(data))
		return nil
	}

	printHierarchySummary(cfg.CLI.Name, h)
	return nil
}

// printHierarchySummary renders the tree one level deep per line:
// builtins, then plugins with their action counts.
func printHierarchySummary(cliName string, h hierarchy.Hierarchy) {
	root := hierarchy.RootNode(h)
	if root == nil {
		logger.Logger.Warnw("Hierarchy has no root node", "cli", cliName)
		return
	}

	pterm.DefaultHeader.Printfln("%s command hierarchy", cliName)

	builtins := hierarchy.Builtins(root)
	sort.Strings(builtins)
	pterm.DefaultSection.Println("Builtins")
	for _, name := range builtins {
		node := hierarchy.ChildNode(root, name)
		pterm.Printf("  %s  %s\n", pterm.Bold.Sprint(name), hierarchy.StringField(node, "short_help"))
	}

	plugins, _ := hierarchy.PluginsAndBuiltins(root)
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	pterm.DefaultSection.Println("Plugins")
	for _, name := range names {
		node := hierarchy.ChildNode(root, name)
		actions := hierarchy.Actions(node)
		pterm.Printf("  %s (%d actions)  %s\n",
			pterm.Bold.Sprint(name),
			len(actions),
			hierarchy.StringField(node, "short_description"),
		)
	}
}
