package lsp

import (
	"strings"

	"github.com/teranos/q2ls/hierarchy"
)

// CompletionKind classifies a completion item.
type CompletionKind string

const (
	KindPlugin    CompletionKind = "plugin"
	KindAction    CompletionKind = "action"
	KindParameter CompletionKind = "parameter"
	KindBuiltin   CompletionKind = "builtin"
)

// CompletionItem is one completion suggestion.
type CompletionItem struct {
	Label      string         `json:"label"`
	Detail     string         `json:"detail"`
	Kind       CompletionKind `json:"kind"`
	InsertText string         `json:"insert_text,omitempty"`
}

// Completions synthesizes completion items for a resolved context.
//
// Prefix filtering is case-sensitive at every level. The hierarchy is
// untrusted external data; malformed shapes yield no items, never an error.
func Completions(ctx CompletionContext, h hierarchy.Hierarchy) []CompletionItem {
	if ctx.Mode == ModeNone || ctx.Command == nil {
		return nil
	}

	root := hierarchy.RootNode(h)
	if root == nil {
		return nil
	}

	switch ctx.Mode {
	case ModeRoot:
		return completeRoot(root, ctx.Prefix)
	case ModePlugin:
		return completePlugin(root, tokenText(ctx, 1), ctx.Prefix)
	case ModeParameter:
		return completeParameters(root, tokenText(ctx, 1), tokenText(ctx, 2), ctx.Prefix, usedParameters(ctx))
	default:
		return nil
	}
}

// completeRoot offers builtin commands and plugin names.
func completeRoot(root hierarchy.Node, prefix string) []CompletionItem {
	var items []CompletionItem

	builtins := hierarchy.Builtins(root)
	builtinSet := make(map[string]bool, len(builtins))
	for _, name := range builtins {
		builtinSet[name] = true
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		node := hierarchy.ChildNode(root, name)
		detail := firstNonEmpty(
			hierarchy.StringField(node, "short_help"),
			hierarchy.StringField(node, "help"),
			"Built-in command",
		)
		items = append(items, CompletionItem{Label: name, Detail: detail, Kind: KindBuiltin})
	}

	for key, value := range root {
		if key == "" || hierarchy.RootMetadataKeys[key] || builtinSet[key] {
			continue
		}
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		node, ok := value.(map[string]any)
		if !ok {
			continue
		}
		detail := firstNonEmpty(
			hierarchy.StringField(node, "short_description"),
			hierarchy.StringField(node, "description"),
			"Plugin",
		)
		items = append(items, CompletionItem{Label: key, Detail: detail, Kind: KindPlugin})
	}

	return items
}

// completePlugin offers action names within a plugin or builtin. Invalid
// plugin names yield no items; no fuzzy correction happens here.
func completePlugin(root hierarchy.Node, pluginName, prefix string) []CompletionItem {
	node := hierarchy.ChildNode(root, pluginName)
	if node == nil {
		return nil
	}

	var items []CompletionItem
	for key, value := range node {
		if key == "" || hierarchy.CommandMetadataKeys[key] {
			continue
		}
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		child, ok := value.(map[string]any)
		if !ok {
			continue
		}
		detail := firstNonEmpty(hierarchy.StringField(child, "description"), "Action")
		items = append(items, CompletionItem{Label: key, Detail: detail, Kind: KindAction})
	}

	// A childless builtin takes options directly, so offer --help. A node
	// whose children simply didn't match the prefix gets no fallback.
	if len(items) == 0 && isBuiltin(root, pluginName) && len(hierarchy.Actions(node)) == 0 {
		return helpItems(prefix)
	}

	return items
}

// completeParameters offers unused option labels for an action.
func completeParameters(root hierarchy.Node, pluginName, actionName, prefix string, used map[string]bool) []CompletionItem {
	node := hierarchy.ChildNode(root, pluginName)
	if node == nil {
		return nil
	}
	action := hierarchy.ChildNode(node, actionName)
	if action == nil {
		return nil
	}

	params := hierarchy.SignatureParams(action)
	if len(params) == 0 {
		if isBuiltin(root, pluginName) {
			return helpItems(prefix)
		}
		return nil
	}

	var items []CompletionItem
	for _, p := range params {
		if used[p.Name] {
			continue
		}
		label := hierarchy.FormatOptionLabel(p.Prefix, p.Name)
		if !hierarchy.OptionLabelMatchesPrefix(label, prefix) {
			continue
		}

		var detailParts []string
		if hierarchy.ParamIsRequired(p.Param) {
			detailParts = append(detailParts, "(required)")
		}
		if typ := hierarchy.StringField(p.Param, "type"); typ != "" {
			detailParts = append(detailParts, "["+typ+"]")
		}
		if desc := hierarchy.StringField(p.Param, "description"); desc != "" {
			detailParts = append(detailParts, desc)
		}
		detail := "Parameter"
		if len(detailParts) > 0 {
			detail = strings.Join(detailParts, " ")
		}
		items = append(items, CompletionItem{Label: label, Detail: detail, Kind: KindParameter})
	}

	if hierarchy.OptionLabelMatchesPrefix("--help", prefix) && !used["help"] {
		items = append(items, helpItems("")...)
	}

	return items
}

// usedParameters collects parameter names already present on the command.
// Option tokens start at index 3; each contributes its underscored name and,
// when kind-prefixed, the bare remainder too, covering both spellings.
func usedParameters(ctx CompletionContext) map[string]bool {
	used := make(map[string]bool)
	if ctx.Command == nil {
		return used
	}
	for _, token := range tokensFrom(ctx.Command.Tokens, 3) {
		if !strings.HasPrefix(token.Text, "--") {
			continue
		}
		name := strings.TrimLeft(token.Text, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
		}
		name = strings.ReplaceAll(name, "-", "_")
		used[name] = true

		if head, rest, ok := strings.Cut(name, "_"); ok && rest != "" {
			switch head {
			case "i", "o", "p", "m":
				used[rest] = true
			}
		}
	}
	return used
}

func isBuiltin(root hierarchy.Node, name string) bool {
	for _, b := range hierarchy.Builtins(root) {
		if b == name {
			return true
		}
	}
	return false
}

func helpItems(prefix string) []CompletionItem {
	if !strings.HasPrefix("--help", prefix) {
		return nil
	}
	return []CompletionItem{{Label: "--help", Detail: "Show help message", Kind: KindParameter}}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func tokensFrom[T any](tokens []T, from int) []T {
	if from >= len(tokens) {
		return nil
	}
	return tokens[from:]
}
