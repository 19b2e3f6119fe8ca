package server

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/q2ls/internal/util"
	"github.com/teranos/q2ls/lsp/diagnostics"
	"github.com/teranos/q2ls/shell"
)

// scheduleValidation queues a debounced validation run for uri. Rapid edits
// keep pushing the run back; only the quiet document gets validated.
func (s *Server) scheduleValidation(notify glsp.NotifyFunc, uri string) {
	s.debouncer.Schedule(uri, s.debounceDelay, func(ctx context.Context) {
		s.validateDocument(ctx, notify, uri)
	})
}

// validateDocument validates every recognized invocation in the document
// and publishes the results. Results for a superseded document version are
// discarded rather than published.
func (s *Server) validateDocument(ctx context.Context, notify glsp.NotifyFunc, uri string) {
	text, version, ok := s.documentSnapshot(uri)
	if !ok {
		return
	}

	h := s.hierarchy()
	if h == nil {
		// No command tree, nothing to validate against. Existing
		// diagnostics stay put rather than flickering away.
		return
	}

	normalized, offsets := shell.Normalize(text)
	commands := shell.SplitCommands(normalized, s.cliName)

	diags := make([]protocol.Diagnostic, 0)
	for _, command := range commands {
		for _, issue := range diagnostics.Validate(command, h) {
			diags = append(diags, toProtocolDiagnostic(issue, offsets, text))
		}
	}

	if ctx.Err() != nil {
		return
	}
	if _, current, ok := s.documentSnapshot(uri); !ok || current != version {
		return
	}

	s.logger.Debugw("Publishing diagnostics",
		"uri", uri,
		"version", version,
		"count", len(diags),
	)
	s.publishDiagnostics(notify, uri, diags, &version)
}

// publishDiagnostics sends a publishDiagnostics notification. A nil slice
// publishes an empty list, clearing the client's diagnostics for uri.
func (s *Server) publishDiagnostics(notify glsp.NotifyFunc, uri string, diags []protocol.Diagnostic, version *int32) {
	if notify == nil {
		return
	}
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}

	params := protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: diags,
	}
	if version != nil {
		params.Version = util.Ptr(protocol.UInteger(*version))
	}

	notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

// toProtocolDiagnostic converts an issue to the wire form. Issue spans are
// in normalized coordinates and must be mapped back to the original text
// before position encoding.
func toProtocolDiagnostic(issue diagnostics.Issue, offsets shell.OffsetMap, text string) protocol.Diagnostic {
	severity := toProtocolSeverity(diagnostics.SeverityFor(issue.Code))
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: offsetToPosition(text, offsets.ToOriginal(issue.Start)),
			End:   offsetToPosition(text, offsets.ToOriginal(issue.End)),
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: issue.Code},
		Source:   util.Ptr("q2ls"),
		Message:  issue.Message,
	}
}

func toProtocolSeverity(severity diagnostics.Severity) protocol.DiagnosticSeverity {
	if severity == diagnostics.SeverityWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}
