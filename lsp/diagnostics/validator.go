package diagnostics

import (
	"strings"

	"github.com/teranos/q2ls/hierarchy"
	"github.com/teranos/q2ls/shell"
)

// Validate checks a parsed command against the hierarchy and returns its
// structural issues.
//
// The pipeline is staged and each stage gates on the previous one
// succeeding, so a mistyped plugin does not also flood the user with
// unknown-action and missing-option noise. The hierarchy is untrusted,
// possibly stale external data: unexpected shapes degrade to "no issue",
// never an error.
func Validate(command shell.Command, h hierarchy.Hierarchy) []Issue {
	root := hierarchy.RootNode(h)
	if root == nil {
		return nil
	}

	var issues []Issue

	// Stage 1: plugin/builtin name (token 1).
	token1Valid := true
	resolvedPlugin := ""
	if len(command.Tokens) >= 2 {
		token1 := command.Tokens[1]
		if !strings.HasPrefix(token1.Text, "-") {
			if issue := validateRoot(token1, root); issue != nil {
				issues = append(issues, *issue)
				token1Valid = false
				// A unique prefix match still tells us which node the user
				// meant, letting stage 2 validate the action anyway.
				plugins, builtins := hierarchy.PluginsAndBuiltins(root)
				resolvedPlugin = uniquePrefixMatch(token1.Text, namesOf(plugins, builtins))
			} else {
				resolvedPlugin = token1.Text
			}
		}
	}

	// Stage 2: action name (token 2), only when a node was resolved.
	token2Valid := true
	if resolvedPlugin != "" && len(command.Tokens) >= 3 {
		token2 := command.Tokens[2]
		if !strings.HasPrefix(token2.Text, "-") {
			if issue := validateAction(token2, root, resolvedPlugin); issue != nil {
				issues = append(issues, *issue)
				token2Valid = false
			}
		}
	}

	// Stages 3 and 4 need an exactly valid plugin/action path.
	if !token1Valid || !token2Valid || len(command.Tokens) < 3 {
		return issues
	}

	pluginName := command.Tokens[1].Text
	actionName := command.Tokens[2].Text

	var optionIssues []Issue
	if len(command.Tokens) >= 4 {
		optionIssues = validateOptions(command.Tokens[3:], root, pluginName, actionName)
	}
	issues = append(issues, optionIssues...)

	issues = append(issues,
		validateRequiredOptions(command.Tokens, root, pluginName, actionName, optionIssues)...)

	return issues
}
