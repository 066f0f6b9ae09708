// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package panel

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Hub fans rendered pages out to every connected websocket client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsConn]struct{}
	bc      chan []byte

	// current supplies the page sent to a client when it connects.
	current func() ([]byte, error)
}

type wsConn struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns a hub. current may be nil.
func NewHub(current func() ([]byte, error)) *Hub {
	return &Hub{
		clients: make(map[*wsConn]struct{}),
		bc:      make(chan []byte, 64),
		current: current,
	}
}

// Run delivers broadcasts until ctx is done. Slow clients drop messages
// rather than block the hub.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case msg := <-h.bc:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slog.Debug("panel client too slow, dropping update")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues page for every client. It never blocks.
func (h *Hub) Broadcast(page []byte) {
	select {
	case h.bc <- page:
	default:
		slog.Warn("panel broadcast queue full, dropping update")
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// The panel listens on loopback only, so any origin is accepted.
var upgrader = websocket.Upgrader{
	CheckOrigin:     func(*http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// ServeWS upgrades the request and streams pages until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	c := &wsConn{conn: conn, send: make(chan []byte, 16)}

	// Register before taking the snapshot so an update published in between
	// is broadcast to c rather than lost.
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.current != nil {
		if page, err := h.current(); err == nil {
			select {
			case c.send <- page:
			default:
			}
		}
	}
	h.mu.Unlock()
	slog.Debug("panel client connected", "remote", r.RemoteAddr)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) remove(c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writeLoop(c *wsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards client messages; it exists to observe pongs and close.
func (h *Hub) readLoop(c *wsConn) {
	defer h.remove(c)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			slog.Debug("panel client disconnected", "error", err)
			return
		}
	}
}
