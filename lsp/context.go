// Package lsp provides language intelligence for multi-level CLI
// invocations embedded in shell scripts: completion, hover, and (via the
// diagnostics subpackage) structural validation.
//
// Everything here is synchronous, pure computation over in-memory text plus
// an injected command hierarchy; no I/O, no shared mutable state.
package lsp

import (
	"github.com/teranos/q2ls/shell"
)

// CompletionMode identifies which level of the command an edit position
// completes. It is a closed enum; raw strings never cross an API boundary.
type CompletionMode int

const (
	// ModeNone means the cursor is outside any recognized invocation, or on
	// the CLI name itself.
	ModeNone CompletionMode = iota
	// ModeRoot completes plugin and builtin names (token 1).
	ModeRoot
	// ModePlugin completes action names within a plugin (token 2).
	ModePlugin
	// ModeParameter completes option labels (token 3+).
	ModeParameter
)

func (m CompletionMode) String() string {
	switch m {
	case ModeRoot:
		return "root"
	case ModePlugin:
		return "plugin"
	case ModeParameter:
		return "parameter"
	default:
		return "none"
	}
}

// CompletionContext describes where in an invocation the cursor sits.
type CompletionContext struct {
	Mode         CompletionMode
	Command      *shell.Command
	CurrentToken *shell.Token
	TokenIndex   int
	Prefix       string
}

// ResolveContext determines the completion context at a cursor offset in
// original (non-normalized) text coordinates.
func ResolveContext(text string, offset int, cliName string) CompletionContext {
	normalized, offsetMap := shell.Normalize(text)
	cursor := offsetMap.ToNormalized(offset)

	commands := shell.SplitCommands(normalized, cliName)
	command := shell.CommandAt(commands, cursor)
	if command == nil {
		return CompletionContext{Mode: ModeNone, TokenIndex: -1}
	}

	var current *shell.Token
	tokenIndex := -1
	prefix := ""

	for i := range command.Tokens {
		token := &command.Tokens[i]
		if token.Start <= cursor && cursor <= token.End {
			current = token
			tokenIndex = i
			prefix = truncate(token.Text, cursor-token.Start)
			break
		}
		if token.End < cursor {
			tokenIndex = i + 1
		}
	}

	// Cursor between tokens: at text end or right after whitespace the
	// cursor starts a new token.
	if current == nil && cursor > 0 && cursor <= len(normalized) {
		if cursor == len(normalized) || normalized[cursor-1] == ' ' || normalized[cursor-1] == '\t' {
			tokenIndex = len(command.Tokens)
		}
	}

	return CompletionContext{
		Mode:         determineMode(tokenIndex),
		Command:      command,
		CurrentToken: current,
		TokenIndex:   tokenIndex,
		Prefix:       prefix,
	}
}

// determineMode maps a token index to a completion mode. Index 0 is the
// literal CLI name and is never completed.
func determineMode(tokenIndex int) CompletionMode {
	switch {
	case tokenIndex <= 0:
		return ModeNone
	case tokenIndex == 1:
		return ModeRoot
	case tokenIndex == 2:
		return ModePlugin
	default:
		return ModeParameter
	}
}

// tokenText returns the text of the command's token at index, or "".
func tokenText(ctx CompletionContext, index int) string {
	if ctx.Command == nil || index >= len(ctx.Command.Tokens) {
		return ""
	}
	return ctx.Command.Tokens[index].Text
}

func truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	if n > len(s) {
		return s
	}
	return s[:n]
}
