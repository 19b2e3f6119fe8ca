package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"
)

// The server binds loopback and carries no credentials, so any local page
// may connect.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades an HTTP request and serves one LSP session over
// the WebSocket connection. Blocks until the connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.logger.Infow("WebSocket connection request", "remote", r.RemoteAddr)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("Failed to upgrade WebSocket", "error", err)
		return
	}

	glspServer := glspserver.NewServer(s.protocolHandler(), Name, false)
	glspServer.ServeWebSocket(conn)

	s.logger.Infow("WebSocket connection closed", "remote", r.RemoteAddr)
}

// RunWebSocket serves LSP sessions over WebSocket on address.
func (s *Server) RunWebSocket(address string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.HandleWebSocket)

	s.logger.Infow("Starting language server on WebSocket", "address", address, "cli", s.cliName)
	return http.ListenAndServe(address, mux)
}
