// Package hierarchy models the command tree of a multi-level CLI
// (root → plugins/builtins → actions → signature parameters).
//
// The tree is externally produced, JSON-shaped, and possibly version-skewed
// relative to the CLI it describes, so it is kept as a weakly-typed mapping
// with conservative accessors: an absent or non-mapping value never errors,
// it just is not a valid child.
package hierarchy

// Node is one weakly-typed node of the command tree.
type Node = map[string]any

// Hierarchy maps the CLI root name (e.g. "qiime") to its root node.
type Hierarchy = map[string]any

// Metadata key sets. Any key outside a node's metadata set whose value is a
// nested mapping is a child node; this rule drives both completion and
// diagnostics.
var (
	// RootMetadataKeys are root-node keys that are not plugin/builtin entries.
	RootMetadataKeys = map[string]bool{
		"name":       true,
		"help":       true,
		"short_help": true,
		"builtins":   true,
	}

	// CommandMetadataKeys are plugin/builtin-node keys that are not action
	// entries.
	CommandMetadataKeys = map[string]bool{
		"id":                true,
		"name":              true,
		"version":           true,
		"website":           true,
		"user_support_text": true,
		"description":       true,
		"short_description": true,
		"short_help":        true,
		"help":              true,
		"actions":           true,
		"type":              true,
	}

	// BuiltinLeafMetadataKeys extend CommandMetadataKeys for builtin
	// leaf detection.
	BuiltinLeafMetadataKeys = func() map[string]bool {
		keys := map[string]bool{"builtins": true}
		for k := range CommandMetadataKeys {
			keys[k] = true
		}
		return keys
	}()
)

// RootNode returns the hierarchy's single root node, or nil.
func RootNode(h Hierarchy) Node {
	for _, v := range h {
		if node, ok := v.(Node); ok {
			return node
		}
	}
	return nil
}

// ChildNode returns the named child of node when it is a nested mapping,
// else nil.
func ChildNode(node Node, name string) Node {
	if node == nil {
		return nil
	}
	child, ok := node[name].(map[string]any)
	if !ok {
		return nil
	}
	return child
}

// StringField returns a string-valued metadata field, or "".
func StringField(node Node, key string) string {
	if node == nil {
		return ""
	}
	s, _ := node[key].(string)
	return s
}

// Builtins returns the root node's builtin command names.
func Builtins(root Node) []string {
	if root == nil {
		return nil
	}
	raw, ok := root["builtins"].([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

// PluginsAndBuiltins splits the root node's children into plugin names and
// builtin names. Builtins are explicitly enumerated; plugins are the
// remaining non-metadata keys mapping to nested values.
func PluginsAndBuiltins(root Node) (plugins map[string]bool, builtins map[string]bool) {
	plugins = make(map[string]bool)
	builtins = make(map[string]bool)
	for _, name := range Builtins(root) {
		builtins[name] = true
	}
	for key, value := range root {
		if key == "" || RootMetadataKeys[key] || builtins[key] {
			continue
		}
		if _, ok := value.(map[string]any); !ok {
			continue
		}
		plugins[key] = true
	}
	return plugins, builtins
}

// Actions returns the non-metadata, nested-mapping children of a
// plugin/builtin node.
func Actions(node Node) []string {
	var actions []string
	for key, value := range node {
		if key == "" || CommandMetadataKeys[key] {
			continue
		}
		if _, ok := value.(map[string]any); !ok {
			continue
		}
		actions = append(actions, key)
	}
	return actions
}

// IsBuiltinLeaf reports whether node is a builtin with no action-shaped
// children. Builtin leaves take no subcommand, so token 2 of their
// invocation is not validated.
func IsBuiltinLeaf(node Node) bool {
	if StringField(node, "type") != "builtin" {
		return false
	}
	for key, value := range node {
		if BuiltinLeafMetadataKeys[key] {
			continue
		}
		if _, ok := value.(map[string]any); ok {
			return false
		}
	}
	return true
}
