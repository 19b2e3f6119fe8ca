// Package diagnostics validates parsed CLI invocations against the command
// hierarchy and manages the debounced validation lifecycle.
package diagnostics

// Diagnostic codes. These are a wire contract: external layers key severity
// and client-side filtering off them, so they must stay stable.
const (
	CodeUnknownRoot           = "q2ls/unknown-root"
	CodeUnknownAction         = "q2ls/unknown-action"
	CodeUnknownSubcommand     = "q2ls/unknown-subcommand"
	CodeUnknownOption         = "q2ls/unknown-option"
	CodeMissingRequiredOption = "q2ls/missing-required-option"
)

// Severity mirrors LSP diagnostic severity numbering.
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
)

// SeverityFor maps a diagnostic code to its severity. A missing required
// option means the command cannot run; the unknown-* family may just be
// hierarchy staleness, so it warns.
func SeverityFor(code string) Severity {
	if code == CodeMissingRequiredOption {
		return SeverityError
	}
	return SeverityWarning
}
