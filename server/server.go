// Package server exposes the language intelligence over the Language
// Server Protocol, on stdio, TCP, or WebSocket transports.
package server

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/q2ls/hierarchy"
	"github.com/teranos/q2ls/logger"
	"github.com/teranos/q2ls/lsp/diagnostics"
)

const (
	// Name identifies the server to LSP clients.
	Name = "QIIME 2 Language Server"

	// maxOpenDocuments caps the document cache. A buggy client could open
	// unlimited documents; this bounds the risk.
	maxOpenDocuments = 100
)

// document is one open text document, tracked by full-sync snapshots.
type document struct {
	text    string
	version int32
}

// Options configures a Server.
type Options struct {
	// CLIName is the executable name recognized in scripts ("qiime").
	CLIName string

	// Provider supplies the command hierarchy. May block on first call.
	Provider hierarchy.Provider

	// HelpProvider supplies live --help output for hover; optional.
	HelpProvider hierarchy.HelpProvider

	// DebounceDelay is the quiet period between an edit and validation.
	DebounceDelay time.Duration

	Logger *zap.SugaredLogger
}

// Server implements the LSP handlers over the shell parsing, completion,
// hover, and diagnostics layers.
type Server struct {
	logger        *zap.SugaredLogger
	cliName       string
	provider      hierarchy.Provider
	helpProvider  hierarchy.HelpProvider
	debouncer     *diagnostics.Debouncer
	debounceDelay time.Duration

	mu        sync.RWMutex
	documents map[string]*document
}

// New creates a Server. Zero-value options fall back to sensible defaults;
// only Provider is mandatory.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Logger
	}
	cliName := opts.CLIName
	if cliName == "" {
		cliName = "qiime"
	}
	delay := opts.DebounceDelay
	if delay <= 0 {
		delay = diagnostics.DefaultDebounceDelay
	}

	return &Server{
		logger:        log,
		cliName:       cliName,
		provider:      opts.Provider,
		helpProvider:  opts.HelpProvider,
		debouncer:     diagnostics.NewDebouncer(log),
		debounceDelay: delay,
		documents:     make(map[string]*document),
	}
}

// documentSnapshot returns the text and version of an open document.
func (s *Server) documentSnapshot(uri string) (string, int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[uri]
	if !ok {
		return "", 0, false
	}
	return doc.text, doc.version, true
}
