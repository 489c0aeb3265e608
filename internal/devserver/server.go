package devserver

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yacobolo/tailgen/internal/css"
)

// Routes served by Handler
const (
	SocketPath     = "/ws"
	StylesheetPath = "/tailgen.css"
	ClientPath     = "/tailgen.js"
)

// Message types
const (
	TypeHello  = "hello"
	TypeUpdate = "update"
)

// Message is sent to clients on connect and after every rebuild
type Message struct {
	Type    string   `json:"type"`
	Version int      `json:"version"`
	Diff    css.Diff `json:"diff"`
	Size    int      `json:"size"`
}

// Server serves the latest stylesheet and notifies connected browsers when it
// changes.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	css     []byte
	version int
}

// New creates a server with an empty stylesheet.
func New() *Server {
	return &Server{
		hub: NewHub(),
		upgrader: websocket.Upgrader{
			// local development only
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Hub returns the connection hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Update replaces the served stylesheet and broadcasts the diff.
func (s *Server) Update(stylesheet []byte, diff css.Diff) {
	s.mu.Lock()
	s.css = stylesheet
	s.version++
	msg := Message{Type: TypeUpdate, Version: s.version, Diff: diff, Size: len(stylesheet)}
	s.mu.Unlock()

	s.hub.Broadcast(msg)
}

// Snapshot returns the current stylesheet and its version.
func (s *Server) Snapshot() ([]byte, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.css, s.version
}

// Close disconnects all clients.
func (s *Server) Close() {
	s.hub.Close()
}

// Handler routes the socket, the stylesheet and the reload script.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SocketPath, s.handleSocket)
	mux.HandleFunc(StylesheetPath, s.handleStylesheet)
	mux.HandleFunc(ClientPath, s.handleClient)
	return mux
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		return
	}

	s.hub.Add(conn)
	defer func() {
		s.hub.Remove(conn)
		conn.Close()
	}()

	stylesheet, version := s.Snapshot()
	if err := s.hub.WriteJSON(conn, Message{Type: TypeHello, Version: version, Size: len(stylesheet)}); err != nil {
		return
	}

	// clients never send anything meaningful; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	stylesheet, version := s.Snapshot()

	etag := `"` + strconv.Itoa(version) + `"`
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Write(stylesheet)
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprintf(w, clientScript, SocketPath, StylesheetPath)
}

// clientScript reconnects to the socket and swaps the stylesheet link's
// query string on every update.
const clientScript = `(() => {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const connect = () => {
    const ws = new WebSocket(proto + "//" + location.host + %q);
    ws.onmessage = (ev) => {
      const msg = JSON.parse(ev.data);
      if (msg.type !== "update") return;
      document.querySelectorAll('link[rel="stylesheet"]').forEach((link) => {
        const url = new URL(link.href);
        if (url.pathname !== %q) return;
        url.searchParams.set("v", msg.version);
        link.href = url.toString();
      });
    };
    ws.onclose = () => setTimeout(connect, 1000);
  };
  connect();
})();
`
