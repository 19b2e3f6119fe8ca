package server

import (
	glspserver "github.com/tliron/glsp/server"
)

// RunStdio serves LSP over stdin/stdout. This is why all logging goes to
// stderr: stdout carries the wire protocol.
func (s *Server) RunStdio() error {
	s.logger.Infow("Starting language server on stdio", "cli", s.cliName)
	return s.glspServer().RunStdio()
}

// RunTCP serves LSP over a TCP listener, one session per connection.
func (s *Server) RunTCP(address string) error {
	s.logger.Infow("Starting language server on TCP", "address", address, "cli", s.cliName)
	return s.glspServer().RunTCP(address)
}

func (s *Server) glspServer() *glspserver.Server {
	return glspserver.NewServer(s.protocolHandler(), Name, false)
}
