package diagnostics

import (
	"fmt"
	"strings"

	"github.com/teranos/q2ls/hierarchy"
	"github.com/teranos/q2ls/shell"
)

const suggestionLimit = 3

// validateRoot checks token 1 against the union of plugin and builtin
// names. Returns nil when the token is valid.
func validateRoot(token shell.Token, root hierarchy.Node) *Issue {
	plugins, builtins := hierarchy.PluginsAndBuiltins(root)
	candidates := namesOf(plugins, builtins)

	if isExactMatch(token.Text, candidates) {
		return nil
	}

	message := unknownMessage("command", token.Text, "", suggestions(token.Text, candidates, suggestionLimit))
	return &Issue{
		Message: message,
		Start:   token.Start,
		End:     token.End,
		Code:    CodeUnknownRoot,
	}
}

// validateAction checks token 2 against the resolved plugin/builtin node's
// children. Builtin leaves take no subcommand, so they are not validated.
func validateAction(token shell.Token, root hierarchy.Node, pluginName string) *Issue {
	node := hierarchy.ChildNode(root, pluginName)
	if node == nil {
		// Caught by root validation.
		return nil
	}
	if hierarchy.IsBuiltinLeaf(node) {
		return nil
	}

	actions := hierarchy.Actions(node)
	if isExactMatch(token.Text, actions) {
		return nil
	}

	kind, code := "action", CodeUnknownAction
	if hierarchy.StringField(node, "type") == "builtin" {
		kind, code = "subcommand", CodeUnknownSubcommand
	}

	message := unknownMessage(kind, token.Text, pluginName, suggestions(token.Text, actions, suggestionLimit))
	return &Issue{
		Message: message,
		Start:   token.Start,
		End:     token.End,
		Code:    code,
	}
}

// validateOptions checks option-shaped tokens (index >= 3) against the
// action's rendered option labels. --help and -h are always valid.
func validateOptions(tokens []shell.Token, root hierarchy.Node, pluginName, actionName string) []Issue {
	action := hierarchy.ChildNode(hierarchy.ChildNode(root, pluginName), actionName)
	if action == nil {
		return nil
	}

	validLabels := hierarchy.AllOptionLabels(action)

	var issues []Issue
	for _, token := range tokens {
		if !strings.HasPrefix(token.Text, "--") {
			// Values and positional arguments are not validated.
			continue
		}

		name := token.Text
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
		}
		if name == "--help" || name == "-h" {
			continue
		}

		if isExactMatch(name, validLabels) {
			continue
		}

		message := unknownMessage("option", name, "", suggestions(name, validLabels, suggestionLimit))
		issues = append(issues, Issue{
			Message: message,
			Start:   token.Start,
			End:     token.End,
			Code:    CodeUnknownOption,
		})
	}
	return issues
}

// validateRequiredOptions reports required options missing from the
// command, anchored at the action token. Skipped entirely on help
// invocations. When an unknown-option issue's single suggestion resolves to
// a missing option, that option is suppressed: one typo should not also
// report "missing".
func validateRequiredOptions(tokens []shell.Token, root hierarchy.Node, pluginName, actionName string, unknownOptionIssues []Issue) []Issue {
	action := hierarchy.ChildNode(hierarchy.ChildNode(root, pluginName), actionName)
	if action == nil || len(tokens) < 3 {
		return nil
	}

	optionTokens := tokens[3:]
	for _, token := range optionTokens {
		name, _, _ := strings.Cut(token.Text, "=")
		if name == "--help" || name == "-h" {
			return nil
		}
	}

	present := make(map[string]bool)
	for _, token := range optionTokens {
		if name := hierarchy.NormalizeOptionToParamName(token.Text); name != "" {
			present[strings.ToLower(name)] = true
		}
	}

	// Canonical name -> rendered label for every required parameter.
	required := make(map[string]string)
	var requiredOrder []string
	for _, p := range hierarchy.SignatureParams(action) {
		if !hierarchy.ParamIsRequired(p.Param) {
			continue
		}
		key := strings.ToLower(p.Name)
		if _, dup := required[key]; !dup {
			requiredOrder = append(requiredOrder, key)
		}
		required[key] = hierarchy.FormatOptionLabel(p.Prefix, p.Name)
	}

	suppressed := make(map[string]bool)
	for _, issue := range unknownOptionIssues {
		suggestion := extractSingleSuggestion(issue.Message)
		if suggestion == "" {
			continue
		}
		name := hierarchy.NormalizeOptionToParamName(suggestion)
		if name == "" {
			continue
		}
		if _, isRequired := required[strings.ToLower(name)]; isRequired {
			suppressed[strings.ToLower(name)] = true
		}
	}

	actionToken := tokens[2]
	var issues []Issue
	for _, name := range requiredOrder {
		if present[name] || suppressed[name] {
			continue
		}
		issues = append(issues, Issue{
			Message: fmt.Sprintf("Required option '%s' is not specified.", required[name]),
			Start:   actionToken.Start,
			End:     actionToken.End,
			Code:    CodeMissingRequiredOption,
		})
	}
	return issues
}

// unknownMessage renders "Unknown <kind> '<text>'[ for '<parent>']." with an
// optional "Did you mean ...?" tail.
func unknownMessage(kind, text, parent string, suggested []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Unknown %s '%s'", kind, text)
	if parent != "" {
		fmt.Fprintf(&b, " for '%s'", parent)
	}
	b.WriteString(".")

	if len(suggested) > 0 {
		quoted := make([]string, len(suggested))
		for i, s := range suggested {
			quoted[i] = "'" + s + "'"
		}
		fmt.Fprintf(&b, " Did you mean %s?", strings.Join(quoted, ", "))
	}
	return b.String()
}

func namesOf(sets ...map[string]bool) []string {
	var names []string
	for _, set := range sets {
		for name := range set {
			names = append(names, name)
		}
	}
	return names
}
