// Package ws exposes the broadcast hub over WebSocket connections. Each
// connection gets its own hub subscription; frames flow one way, server to
// client, and a connection that stops draining is dropped along with its
// subscription rather than allowed to stall the write path.
package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/events"
	"github.com/taskwire/taskwire/internal/hub"
)

const (
	// writeWait bounds a single frame write to a peer.
	writeWait = 10 * time.Second

	// pongWait is how long a peer may stay silent before the read side
	// gives up on it.
	pongWait = 60 * time.Second

	// pingPeriod is how often pings go out; it must be below pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames; clients have nothing to say,
	// so anything large is a misbehaving peer.
	maxMessageSize = 512
)

// Frame is the wire shape of a pushed event.
type Frame struct {
	Type string      `json:"type"`
	Task domain.Task `json:"task"`
}

// Handler upgrades HTTP requests to WebSocket connections subscribed to the
// broadcast hub.
type Handler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a WebSocket handler backed by the given hub.
// If logger is nil, the default logger is used.
func NewHandler(h *hub.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is out of scope; same-process clients and
			// the reconciler set no browser Origin anyway.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With("component", "ws_handler"),
	}
}

// ServeHTTP implements http.Handler. It upgrades the connection, subscribes
// it to the hub, and pumps events until either side goes away. There is no
// replay: anything published before the upgrade completes is only visible
// to this client through a snapshot fetch.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sub := h.hub.Subscribe()
	if sub == nil {
		// Hub is shutting down.
		_ = conn.Close()
		return
	}

	h.logger.Debug("websocket client connected",
		"subscription_id", sub.ID,
		"remote_addr", r.RemoteAddr)

	go h.writePump(conn, sub)
	go h.readPump(conn, sub)
}

// writePump serializes hub events onto the connection and keeps the peer
// alive with pings. It exits when the subscription channel closes (hub-side
// drop) or a write fails (peer-side problem), unsubscribing in either case.
func (h *Handler) writePump(conn *websocket.Conn, sub *hub.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unsubscribe(sub.ID)
		_ = conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				// Dropped by the hub: closed, or this peer fell behind.
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Frame{Type: events.KindTaskAdded, Task: event.Task}); err != nil {
				h.logger.Debug("websocket write failed, dropping client",
					"subscription_id", sub.ID,
					"error", err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and watches for disconnects. Client
// disconnect unregisters the subscription immediately and idempotently.
func (h *Handler) readPump(conn *websocket.Conn, sub *hub.Subscription) {
	defer func() {
		h.hub.Unsubscribe(sub.ID)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.logger.Debug("websocket client disconnected",
				"subscription_id", sub.ID,
				"error", err)
			return
		}
	}
}
