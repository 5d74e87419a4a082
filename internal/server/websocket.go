package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 54 * time.Second
)

func (s *DevServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: false,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 16),
	}

	go s.writePump(client)
	go s.readPump(client)

	select {
	case s.register <- client:
	case <-s.hubDone:
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// checkOrigin validates the request origin. Browsers connecting to the dev
// server are the only expected peers.
func (s *DevServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	allowed := []string{
		fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		fmt.Sprintf("localhost:%d", s.config.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", s.config.Server.Port),
		r.Host,
	}
	for _, host := range allowed {
		if originURL.Host == host {
			return true
		}
	}
	return false
}

func (s *DevServer) runHub(ctx context.Context) {
	defer close(s.hubDone)
	for {
		select {
		case <-ctx.Done():
			s.closeAllClients()
			return

		case client := <-s.register:
			s.clientsMutex.Lock()
			s.clients[client.conn] = client
			count := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "client connected", "total", count)

		case conn := <-s.unregister:
			s.clientsMutex.Lock()
			if client, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				close(client.send)
				conn.Close(websocket.StatusNormalClosure, "")
			}
			count := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "client disconnected", "total", count)

		case message := <-s.broadcast:
			s.clientsMutex.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; it will reconnect after the reload anyway.
				}
			}
			s.clientsMutex.RUnlock()
		}
	}
}

func (s *DevServer) closeAllClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for conn, client := range s.clients {
		delete(s.clients, conn)
		close(client.send)
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// readPump drains inbound frames until the peer goes away, then unregisters.
// The unregister send gives up once the hub has exited, since nobody is left
// to receive it.
func (s *DevServer) readPump(client *Client) {
	defer func() {
		select {
		case s.unregister <- client.conn:
		case <-s.hubDone:
		}
	}()

	ctx := context.Background()
	for {
		if _, _, err := client.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump forwards hub messages to the peer and keeps the connection
// alive with pings.
func (s *DevServer) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := context.Background()
	for {
		select {
		case message, ok := <-client.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			if !ok {
				cancel()
				return
			}
			if err := client.conn.Write(writeCtx, websocket.MessageText, message); err != nil {
				cancel()
				return
			}
			cancel()

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			if err := client.conn.Ping(pingCtx); err != nil {
				cancel()
				return
			}
			cancel()
		}
	}
}
