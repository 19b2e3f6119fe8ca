package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/q2ls/hierarchy"
	"github.com/teranos/q2ls/shell"
)

func testHierarchy() hierarchy.Hierarchy {
	return hierarchy.Hierarchy{
		"qiime": map[string]any{
			"name":     "qiime",
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
					"signature": []any{
						map[string]any{
							"name":           "table",
							"signature_type": "input",
							"type":           "FeatureTable[Frequency]",
						},
						map[string]any{
							"name":           "sample_metadata",
							"signature_type": "metadata",
							"type":           "Metadata",
							"default":        nil,
						},
					},
				},
				"filter-samples": map[string]any{
					"name":        "filter-samples",
					"description": "Filter samples",
					"signature": []any{
						map[string]any{
							"name":           "table",
							"signature_type": "input",
							"type":           "FeatureTable[Frequency]",
						},
					},
				},
			},
		},
	}
}

func parseCommand(t *testing.T, text string) shell.Command {
	t.Helper()
	commands := shell.SplitCommands(text, "qiime")
	require.Len(t, commands, 1, "expected exactly one qiime command in %q", text)
	return commands[0]
}

func TestValidateValidCommand(t *testing.T) {
	// Scenario A: fully valid invocation yields no issues.
	cmd := parseCommand(t, "qiime feature-table summarize --i-table x.qza")
	assert.Empty(t, Validate(cmd, testHierarchy()))
}

func TestValidateUnknownRootWithSuggestion(t *testing.T) {
	// Scenario B: typo in plugin name.
	cmd := parseCommand(t, "qiime feature-tabel summarize")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 1)
	assert.Equal(t, CodeUnknownRoot, issues[0].Code)
	assert.Contains(t, issues[0].Message, "Did you mean")
	assert.Contains(t, issues[0].Message, "'feature-table'")

	// Anchored at the typo token.
	token := cmd.Tokens[1]
	assert.Equal(t, token.Start, issues[0].Start)
	assert.Equal(t, token.End, issues[0].End)
}

func TestValidateMissingRequiredOption(t *testing.T) {
	// Scenario C: required --i-table omitted; anchored at the action token.
	cmd := parseCommand(t, "qiime feature-table summarize")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 1)
	assert.Equal(t, CodeMissingRequiredOption, issues[0].Code)
	assert.Contains(t, issues[0].Message, "--i-table")

	action := cmd.Tokens[2]
	assert.Equal(t, action.Start, issues[0].Start)
	assert.Equal(t, action.End, issues[0].End)
}

func TestValidateUnknownAction(t *testing.T) {
	cmd := parseCommand(t, "qiime feature-table sumarize")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 1)
	assert.Equal(t, CodeUnknownAction, issues[0].Code)
	assert.Contains(t, issues[0].Message, "for 'feature-table'")
	assert.Contains(t, issues[0].Message, "'summarize'")
}

func TestValidateUnknownSubcommandForBuiltin(t *testing.T) {
	cmd := parseCommand(t, "qiime tools improt")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 1)
	assert.Equal(t, CodeUnknownSubcommand, issues[0].Code)
	assert.Contains(t, issues[0].Message, "'import'")
}

func TestValidateBuiltinLeafSkipsActionValidation(t *testing.T) {
	// "info" has no subcommands; whatever follows it is not an action.
	cmd := parseCommand(t, "qiime info anything")
	assert.Empty(t, Validate(cmd, testHierarchy()))
}

func TestValidateUnknownOption(t *testing.T) {
	cmd := parseCommand(t, "qiime feature-table summarize --i-table x.qza --i-tble y.qza")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 1)
	assert.Equal(t, CodeUnknownOption, issues[0].Code)
	assert.Contains(t, issues[0].Message, "'--i-tble'")
	assert.Contains(t, issues[0].Message, "'--i-table'")
}

func TestValidateOptionEqualsValueForm(t *testing.T) {
	cmd := parseCommand(t, "qiime feature-table summarize --i-table=x.qza")
	assert.Empty(t, Validate(cmd, testHierarchy()))
}

func TestValidateCascadeSuppression(t *testing.T) {
	// One typo'd required option: the unknown-option issue's suggestion
	// resolves to the missing option, so "missing" is suppressed.
	cmd := parseCommand(t, "qiime feature-table summarize --i-tble x.qza")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 1)
	assert.Equal(t, CodeUnknownOption, issues[0].Code)
}

func TestValidateHelpSuppressesRequiredCheck(t *testing.T) {
	for _, text := range []string{
		"qiime feature-table summarize --help",
		"qiime feature-table summarize -h",
	} {
		cmd := parseCommand(t, text)
		assert.Empty(t, Validate(cmd, testHierarchy()), "text %q", text)
	}
}

func TestValidateUnknownRootGatesActionStage(t *testing.T) {
	// "xyz" has no prefix match, so stage 2 cannot resolve a node and the
	// bogus action produces no extra noise.
	cmd := parseCommand(t, "qiime xyz bogus-action")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 1)
	assert.Equal(t, CodeUnknownRoot, issues[0].Code)
}

func TestValidateUniquePrefixStillValidatesAction(t *testing.T) {
	// "feature" uniquely prefixes "feature-table": stage 2 can still check
	// the action against the intended node.
	cmd := parseCommand(t, "qiime feature sumarize")
	issues := Validate(cmd, testHierarchy())

	require.Len(t, issues, 2)
	assert.Equal(t, CodeUnknownRoot, issues[0].Code)
	assert.Equal(t, CodeUnknownAction, issues[1].Code)
}

func TestValidateCaseInsensitiveExactMatch(t *testing.T) {
	cmd := parseCommand(t, "qiime Feature-Table SUMMARIZE --i-table x.qza")
	assert.Empty(t, Validate(cmd, testHierarchy()))
}

func TestValidateOptionLikeTokensSkipNameStages(t *testing.T) {
	cmd := parseCommand(t, "qiime --help")
	assert.Empty(t, Validate(cmd, testHierarchy()))
}

func TestValidateShortCommands(t *testing.T) {
	// Too few tokens for any stage to fire.
	cmd := parseCommand(t, "qiime")
	assert.Empty(t, Validate(cmd, testHierarchy()))
}

func TestValidateDegradesOnMalformedHierarchy(t *testing.T) {
	cmd := parseCommand(t, "qiime feature-table summarize")

	assert.Empty(t, Validate(cmd, nil))
	assert.Empty(t, Validate(cmd, hierarchy.Hierarchy{}))
	assert.Empty(t, Validate(cmd, hierarchy.Hierarchy{"qiime": "not a mapping"}))

	// Signature of unexpected shape: no option/required validation, no panic.
	broken := hierarchy.Hierarchy{
		"qiime": map[string]any{
			"builtins": "not a list",
			"feature-table": map[string]any{
				"summarize": map[string]any{"signature": 42},
			},
		},
	}
	assert.Empty(t, Validate(cmd, broken))
}

func TestCompletionAndValidatorAgreeOnOptionLabels(t *testing.T) {
	// Cross-component invariant: the labels completion offers (minus the
	// synthetic --help) are exactly the labels the validator accepts.
	h := testHierarchy()
	root := hierarchy.RootNode(h)
	action := hierarchy.ChildNode(hierarchy.ChildNode(root, "feature-table"), "summarize")
	labels := hierarchy.AllOptionLabels(action)

	for _, label := range labels {
		cmd := parseCommand(t, "qiime feature-table summarize --i-table x.qza "+label+" v")
		for _, issue := range Validate(cmd, h) {
			assert.NotEqual(t, CodeUnknownOption, issue.Code,
				"validator rejected completion-offered label %s", label)
		}
	}
}
