package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htmlweld/htmlweld/internal/config"
	"github.com/htmlweld/htmlweld/internal/logging"
)

func newTestServer(t *testing.T) (*DevServer, *httptest.Server) {
	t.Helper()

	outDir := t.TempDir()
	cfg := &config.Config{
		Server:      config.ServerConfig{Host: "localhost", Port: 8080},
		Components:  config.ComponentsConfig{Entry: "index.html"},
		Development: config.DevelopmentConfig{Output: outDir, HotReload: true},
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LevelError,
		Output: os.Stderr,
	})

	s := New(cfg, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return s, ts
}

func writeOutput(t *testing.T, s *DevServer, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.config.Development.Output, name), []byte(content), 0o644))
}

func TestServeHTMLInjectsReloadScript(t *testing.T) {
	s, ts := newTestServer(t)
	writeOutput(t, s, "index.html", "<!doctype html><html><body><card></card></body></html>")

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := readAll(t, resp)
	assert.Contains(t, body, "new WebSocket")
	assert.Contains(t, body, "full_reload")
	// Injection lands before the closing body tag.
	assert.Less(t, strings.Index(body, "new WebSocket"), strings.Index(body, "</body>"))
}

func TestServeNonHTMLVerbatim(t *testing.T) {
	s, ts := newTestServer(t)
	writeOutput(t, s, "bundle.js", "console.log('x');")

	resp, err := http.Get(ts.URL + "/bundle.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "console.log('x');", readAll(t, resp))
}

func TestServeRejectsTraversal(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/../../etc/passwd", nil)
	require.NoError(t, err)
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketReceivesFullReload(t *testing.T) {
	s, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go s.runHub(ctx)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{ts.URL}},
	})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Give the hub a moment to register the client.
	time.Sleep(100 * time.Millisecond)
	s.BroadcastReload()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"full_reload"}`, string(data))
}

func TestReadPumpUnblocksAfterHubShutdown(t *testing.T) {
	s, _ := newTestServer(t)

	hubCtx, cancelHub := context.WithCancel(context.Background())
	go s.runHub(hubCtx)
	cancelHub()
	select {
	case <-s.hubDone:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// A connection that dies immediately drives the pump straight to its
	// unregister path; with the hub gone that send has no receiver left.
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err == nil {
			c.Close(websocket.StatusGoingAway, "")
		}
	}))
	defer echo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(echo.URL, "http"), nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.readPump(&Client{conn: conn, send: make(chan []byte, 1)})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump blocked after hub shutdown")
	}
}

func TestWebSocketRejectsMissingOrigin(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	s.handleWebSocket(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckOriginAllowsConfiguredHost(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example.com")
	assert.False(t, s.checkOrigin(req))

	req.Header.Set("Origin", "ftp://localhost:8080")
	assert.False(t, s.checkOrigin(req))
}

func TestInjectReloadScriptWithoutBodyTag(t *testing.T) {
	out := injectReloadScript([]byte("<p>bare fragment</p>"))
	assert.Contains(t, string(out), "full_reload")
	assert.True(t, strings.HasPrefix(string(out), "<p>bare fragment</p>"))
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
