// Package server implements the development HTTP server: it serves the
// built artifacts and pushes full-reload notifications to connected browsers
// over a websocket.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/htmlweld/htmlweld/internal/config"
	"github.com/htmlweld/htmlweld/internal/logging"
)

// reloadMessage is the out-of-band signal telling the browser to reload the
// whole page. The generated bundle is a flat script re-executed wholesale,
// so there is nothing to hot-patch.
const reloadMessage = `{"type":"full_reload"}`

// reloadScript is injected into served HTML so the browser subscribes to
// reload notifications without the entry file referencing the dev server.
const reloadScript = `<script>
(() => {
  const ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = (ev) => {
    try {
      if (JSON.parse(ev.data).type === "full_reload") location.reload();
    } catch {}
  };
})();
</script>`

// Client represents one connected browser.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// DevServer serves the dev output directory with live reload.
type DevServer struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *http.Server

	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *websocket.Conn

	// hubDone is closed when runHub returns; pumps select on it so their
	// register/unregister sends cannot block after the hub has exited.
	hubDone chan struct{}
}

// New creates a dev server over the configured development output directory.
func New(cfg *config.Config, logger logging.Logger) *DevServer {
	return &DevServer{
		config:     cfg,
		logger:     logger.WithComponent("server"),
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		hubDone:    make(chan struct{}),
	}
}

// Handler returns the HTTP handler serving artifacts and the /ws endpoint.
func (s *DevServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleStatic)
	return mux
}

// Start runs the websocket hub and the HTTP server until the context is
// cancelled or the listener fails.
func (s *DevServer) Start(ctx context.Context) error {
	go s.runHub(ctx)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "dev server listening", "addr", "http://"+addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// BroadcastReload signals every connected browser to perform a full reload.
func (s *DevServer) BroadcastReload() {
	select {
	case s.broadcast <- []byte(reloadMessage):
	default:
		// Hub not draining; dropping a reload is harmless because the next
		// successful rebuild sends another.
	}
}

// handleStatic serves files from the dev output directory. HTML responses
// get the reload script injected.
func (s *DevServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "/" + filepath.Base(s.config.Components.Entry)
	}
	// Keep requests inside the output directory.
	clean := filepath.Clean(strings.TrimPrefix(path, "/"))
	if strings.HasPrefix(clean, "..") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	full := filepath.Join(s.config.Development.Output, clean)
	if filepath.Ext(full) != ".html" {
		http.ServeFile(w, r, full)
		return
	}

	data, err := os.ReadFile(full)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(injectReloadScript(data))
}

// injectReloadScript places the reload script before </body>, or appends it
// when the entry has no body close tag.
func injectReloadScript(page []byte) []byte {
	html := string(page)
	if idx := strings.LastIndex(html, "</body>"); idx >= 0 {
		return []byte(html[:idx] + reloadScript + html[idx:])
	}
	return []byte(html + reloadScript)
}
