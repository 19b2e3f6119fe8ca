package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/q2ls/errors"
	"github.com/teranos/q2ls/hierarchy"
	"github.com/teranos/q2ls/internal/util"
	"github.com/teranos/q2ls/lsp"
	"github.com/teranos/q2ls/version"
)

// protocolHandler wires the server's methods into a GLSP handler.
func (s *Server) protocolHandler() *protocol.Handler {
	return &protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.logger.Infow("LSP client initializing",
		"client", params.ClientInfo,
		"cli", s.cliName,
	)

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		CompletionProvider: &protocol.CompletionOptions{
			// Space starts the next command level, dash starts an option.
			TriggerCharacters: []string{" ", "-"},
		},
		HoverProvider: &protocol.HoverOptions{},
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: util.Ptr(true),
			Change:    &syncKind,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: util.Ptr(version.Version),
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.logger.Infow("LSP client initialized")

	// Warm the hierarchy cache off the request path so the first
	// completion does not pay the introspection cost.
	if s.provider != nil {
		go func() {
			if _, err := s.provider(); err != nil {
				s.logger.Warnw("Hierarchy warmup failed", "error", err)
			}
		}()
	}
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.logger.Infow("LSP client shutting down")
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.mu.Lock()
	if _, exists := s.documents[uri]; !exists && len(s.documents) >= maxOpenDocuments {
		s.mu.Unlock()
		s.logger.Warnw("Document cache limit reached, rejecting new document",
			"uri", uri,
			"max_allowed", maxOpenDocuments,
		)
		return errors.Newf("document cache limit reached (%d documents open)", maxOpenDocuments)
	}
	s.documents[uri] = &document{
		text:    params.TextDocument.Text,
		version: params.TextDocument.Version,
	}
	s.mu.Unlock()

	s.logger.Debugw("Document opened",
		"uri", uri,
		"length", len(params.TextDocument.Text),
	)

	s.scheduleValidation(ctx.Notify, uri)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.mu.Lock()
	doc, ok := s.documents[uri]
	if !ok {
		doc = &document{}
		s.documents[uri] = doc
	}
	// Full document sync: each change carries the whole text.
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc.text = whole.Text
		}
	}
	doc.version = params.TextDocument.Version
	s.mu.Unlock()

	s.logger.Debugw("Document changed",
		"uri", uri,
		"version", params.TextDocument.Version,
	)

	s.scheduleValidation(ctx.Notify, uri)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	s.debouncer.Cancel(uri)

	s.mu.Lock()
	delete(s.documents, uri)
	s.mu.Unlock()

	// Stale squiggles must not outlive the document.
	s.publishDiagnostics(ctx.Notify, uri, nil, nil)

	s.logger.Debugw("Document closed", "uri", uri)
	return nil
}

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	// A panic here must not take down the session; no completions is a
	// valid answer.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("Panic in completion handler",
				"panic", r,
				"uri", params.TextDocument.URI,
			)
			result = []protocol.CompletionItem{}
			err = nil
		}
	}()

	uri := string(params.TextDocument.URI)
	text, _, ok := s.documentSnapshot(uri)
	if !ok {
		return []protocol.CompletionItem{}, nil
	}

	offset := positionToOffset(text, params.Position)
	completionCtx := lsp.ResolveContext(text, offset, s.cliName)

	items := lsp.Completions(completionCtx, s.hierarchy())

	s.logger.Debugw("LSP completion",
		"uri", uri,
		"mode", completionCtx.Mode.String(),
		"prefix", completionCtx.Prefix,
		"count", len(items),
	)

	return toProtocolCompletions(items, completionCtx, text, offset), nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (result *protocol.Hover, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("Panic in hover handler",
				"panic", r,
				"uri", params.TextDocument.URI,
			)
			result = nil
			err = nil
		}
	}()

	uri := string(params.TextDocument.URI)
	text, _, ok := s.documentSnapshot(uri)
	if !ok {
		return nil, nil
	}

	offset := positionToOffset(text, params.Position)
	content := lsp.Hover(text, offset, s.cliName, lsp.HoverOptions{
		Hierarchy:    s.hierarchy(),
		HelpProvider: s.helpProvider,
	})
	if content == nil {
		return nil, nil
	}

	s.logger.Debugw("LSP hover", "uri", uri, "length", len(*content))

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: *content,
		},
	}, nil
}

// hierarchy resolves the command tree, degrading to nil on failure. Every
// consumer treats a nil hierarchy as "no information", never an error.
func (s *Server) hierarchy() hierarchy.Hierarchy {
	if s.provider == nil {
		return nil
	}
	h, err := s.provider()
	if err != nil {
		s.logger.Warnw("Hierarchy unavailable", "error", err)
		return nil
	}
	return h
}

// toProtocolCompletions converts completion items, attaching a text edit
// that replaces the typed prefix.
func toProtocolCompletions(items []lsp.CompletionItem, ctx lsp.CompletionContext, text string, offset int) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, len(items))
	editRange := protocol.Range{
		Start: offsetToPosition(text, offset-len(ctx.Prefix)),
		End:   offsetToPosition(text, offset),
	}
	for i, item := range items {
		newText := item.Label
		if item.InsertText != "" {
			newText = item.InsertText
		}
		out[i] = protocol.CompletionItem{
			Label:  item.Label,
			Kind:   completionKind(item.Kind),
			Detail: stringPtrOrNil(item.Detail),
			TextEdit: protocol.TextEdit{
				Range:   editRange,
				NewText: newText,
			},
		}
	}
	return out
}

func completionKind(kind lsp.CompletionKind) *protocol.CompletionItemKind {
	var k protocol.CompletionItemKind
	switch kind {
	case lsp.KindPlugin:
		k = protocol.CompletionItemKindModule
	case lsp.KindBuiltin:
		k = protocol.CompletionItemKindClass
	case lsp.KindAction:
		k = protocol.CompletionItemKindFunction
	case lsp.KindParameter:
		k = protocol.CompletionItemKindField
	default:
		k = protocol.CompletionItemKindText
	}
	return &k
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
