package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/q2ls/hierarchy"
)

func testHierarchy() hierarchy.Hierarchy {
	return hierarchy.Hierarchy{
		"qiime": map[string]any{
			"name":     "qiime",
			"help":     "QIIME 2 command-line interface",
			"builtins": []any{"info", "tools"},
			"info": map[string]any{
				"name":       "info",
				"type":       "builtin",
				"short_help": "Display information about current deployment.",
			},
			"tools": map[string]any{
				"name": "tools",
				"type": "builtin",
				"import": map[string]any{
					"name": "import",
					"type": "builtin_action",
					"signature": []any{
						map[string]any{"name": "input_path", "type": "path", "required": true},
						map[string]any{"name": "input_format", "type": "text", "default": nil},
					},
				},
			},
			"feature-table": map[string]any{
				"name":              "feature-table",
				"short_description": "Plugin for working with feature tables.",
				"summarize": map[string]any{
					"name":        "summarize",
					"description": "Summarize table",
					"epilog":      []any{"Example:", "  qiime feature-table summarize --i-table t.qza"},
					"signature": []any{
						map[string]any{
							"name":           "table",
							"signature_type": "input",
							"type":           "FeatureTable[Frequency]",
							"description":    "The feature table to be summarized.",
						},
						map[string]any{
							"name":           "sample_metadata",
							"signature_type": "metadata",
							"type":           "Metadata",
							"default":        nil,
						},
					},
				},
			},
		},
	}
}

func labelsOf(items []CompletionItem) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	return labels
}

func findItem(t *testing.T, items []CompletionItem, label string) CompletionItem {
	t.Helper()
	for _, item := range items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("no item with label %q in %v", label, labelsOf(items))
	return CompletionItem{}
}

func completeAtEnd(t *testing.T, text string) []CompletionItem {
	t.Helper()
	ctx := ResolveContext(text, len(text), "qiime")
	require.NotEqual(t, ModeNone, ctx.Mode, "no completion context at end of %q", text)
	return Completions(ctx, testHierarchy())
}

func TestCompletionsRoot(t *testing.T) {
	items := completeAtEnd(t, "qiime ")
	labels := labelsOf(items)

	assert.ElementsMatch(t, []string{"info", "tools", "feature-table"}, labels)

	info := findItem(t, items, "info")
	assert.Equal(t, KindBuiltin, info.Kind)
	assert.Equal(t, "Display information about current deployment.", info.Detail)

	ft := findItem(t, items, "feature-table")
	assert.Equal(t, KindPlugin, ft.Kind)
	assert.Equal(t, "Plugin for working with feature tables.", ft.Detail)
}

func TestCompletionsRootPrefixFiltering(t *testing.T) {
	items := completeAtEnd(t, "qiime fea")
	assert.Equal(t, []string{"feature-table"}, labelsOf(items))

	// Filtering is case-sensitive.
	items = completeAtEnd(t, "qiime FEA")
	assert.Empty(t, items)
}

func TestCompletionsPluginActions(t *testing.T) {
	items := completeAtEnd(t, "qiime feature-table ")

	require.Len(t, items, 1)
	assert.Equal(t, "summarize", items[0].Label)
	assert.Equal(t, KindAction, items[0].Kind)
	assert.Equal(t, "Summarize table", items[0].Detail)
}

func TestCompletionsUnknownPlugin(t *testing.T) {
	items := completeAtEnd(t, "qiime bogus ")
	assert.Empty(t, items, "no fuzzy correction at completion time")
}

func TestCompletionsBuiltinSubcommands(t *testing.T) {
	items := completeAtEnd(t, "qiime tools ")

	require.Len(t, items, 1)
	assert.Equal(t, "import", items[0].Label)
}

func TestCompletionsParameterKindPrefix(t *testing.T) {
	// Typing a kind prefix narrows to options of that kind.
	items := completeAtEnd(t, "qiime feature-table summarize --i")

	require.Len(t, items, 1)
	assert.Equal(t, "--i-table", items[0].Label)
	assert.Equal(t, KindParameter, items[0].Kind)
}

func TestCompletionsParameterKindlessPrefix(t *testing.T) {
	// The kind segment may be omitted: --ta still reaches --i-table.
	items := completeAtEnd(t, "qiime feature-table summarize --ta")
	assert.Contains(t, labelsOf(items), "--i-table")
}

func TestCompletionsParameterAllOptions(t *testing.T) {
	items := completeAtEnd(t, "qiime feature-table summarize ")
	assert.ElementsMatch(t,
		[]string{"--i-table", "--m-sample-metadata", "--help"},
		labelsOf(items))
}

func TestCompletionsParameterDetailMarksRequired(t *testing.T) {
	items := completeAtEnd(t, "qiime feature-table summarize ")

	table := findItem(t, items, "--i-table")
	assert.Contains(t, table.Detail, "(required)")
	assert.Contains(t, table.Detail, "[FeatureTable[Frequency]]")
	assert.Contains(t, table.Detail, "The feature table to be summarized.")

	metadata := findItem(t, items, "--m-sample-metadata")
	assert.NotContains(t, metadata.Detail, "(required)")
}

func TestCompletionsUsedOptionsExcluded(t *testing.T) {
	items := completeAtEnd(t, "qiime feature-table summarize --i-table x.qza ")
	labels := labelsOf(items)

	assert.NotContains(t, labels, "--i-table")
	assert.Contains(t, labels, "--m-sample-metadata")
	assert.Contains(t, labels, "--help")
}

func TestCompletionsUsedOptionEqualsValueForm(t *testing.T) {
	items := completeAtEnd(t, "qiime feature-table summarize --i-table=x.qza ")
	assert.NotContains(t, labelsOf(items), "--i-table")
}

func TestCompletionsHelpExcludedWhenUsed(t *testing.T) {
	items := completeAtEnd(t, "qiime feature-table summarize --help ")
	assert.NotContains(t, labelsOf(items), "--help")
}

func TestCompletionsBuiltinActionParameters(t *testing.T) {
	items := completeAtEnd(t, "qiime tools import ")
	assert.ElementsMatch(t,
		[]string{"--input-path", "--input-format", "--help"},
		labelsOf(items))

	path := findItem(t, items, "--input-path")
	assert.Contains(t, path.Detail, "(required)")
}

func TestCompletionsChildlessBuiltinOffersHelp(t *testing.T) {
	items := completeAtEnd(t, "qiime info ")

	require.Len(t, items, 1)
	assert.Equal(t, "--help", items[0].Label)
}

func TestCompletionsNilInputs(t *testing.T) {
	ctx := ResolveContext("qiime ", 6, "qiime")
	assert.Empty(t, Completions(ctx, nil))
	assert.Empty(t, Completions(CompletionContext{Mode: ModeNone}, testHierarchy()))
}

func TestCompletionLabelsAcceptedByNormalization(t *testing.T) {
	// Every offered option label round-trips to the parameter it stands
	// for, so a completed label never triggers an unknown-option issue.
	items := completeAtEnd(t, "qiime feature-table summarize ")
	for _, item := range items {
		if item.Label == "--help" {
			continue
		}
		assert.NotEmpty(t, hierarchy.NormalizeOptionToParamName(item.Label), item.Label)
	}
}
