package lsp

import (
	"strings"

	"github.com/teranos/q2ls/hierarchy"
)

// HoverOptions supplies the sources hover text can come from. A help
// provider (live `--help` output) is preferred; the hierarchy's own
// metadata is the fallback.
type HoverOptions struct {
	Hierarchy    hierarchy.Hierarchy
	HelpProvider hierarchy.HelpProvider
}

// Hover resolves help text at a cursor offset, or nil when the cursor is
// not on the CLI name, a plugin/builtin, or an action.
func Hover(text string, offset int, cliName string, opts HoverOptions) *string {
	ctx := ResolveContext(text, offset, cliName)
	if ctx.Command == nil || ctx.CurrentToken == nil {
		return nil
	}

	if opts.HelpProvider != nil {
		return hoverViaProvider(ctx, opts.HelpProvider)
	}
	if opts.Hierarchy == nil {
		return nil
	}
	return hoverViaHierarchy(ctx, opts.Hierarchy)
}

// hoverViaProvider builds a command path of 0/1/2 elements from the token
// index and asks the provider. Parameters and beyond have no hover.
func hoverViaProvider(ctx CompletionContext, provider hierarchy.HelpProvider) *string {
	switch ctx.TokenIndex {
	case 0:
		return provider(nil)
	case 1:
		return provider([]string{tokenText(ctx, 1)})
	case 2:
		if len(ctx.Command.Tokens) < 2 {
			return nil
		}
		return provider([]string{tokenText(ctx, 1), tokenText(ctx, 2)})
	default:
		return nil
	}
}

func hoverViaHierarchy(ctx CompletionContext, h hierarchy.Hierarchy) *string {
	root := hierarchy.RootNode(h)
	if root == nil {
		return nil
	}

	switch ctx.TokenIndex {
	case 0:
		return nonEmpty(firstNonEmpty(
			hierarchy.StringField(root, "help"),
			hierarchy.StringField(root, "short_help"),
		))
	case 1:
		node := hierarchy.ChildNode(root, ctx.CurrentToken.Text)
		return nonEmpty(firstNonEmpty(
			hierarchy.StringField(node, "help"),
			hierarchy.StringField(node, "short_help"),
			hierarchy.StringField(node, "short_description"),
			hierarchy.StringField(node, "description"),
		))
	case 2:
		node := hierarchy.ChildNode(root, tokenText(ctx, 1))
		action := hierarchy.ChildNode(node, ctx.CurrentToken.Text)
		return nonEmpty(actionHelp(action))
	default:
		return nil
	}
}

// actionHelp renders an action's description with its epilog lines appended
// after a blank line.
func actionHelp(action hierarchy.Node) string {
	description := hierarchy.StringField(action, "description")
	if description == "" {
		return ""
	}

	epilog, ok := action["epilog"].([]any)
	if !ok || len(epilog) == 0 {
		return description
	}

	lines := make([]string, 0, len(epilog))
	for _, line := range epilog {
		if s, ok := line.(string); ok {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return description
	}
	return description + "\n\n" + strings.Join(lines, "\n")
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
