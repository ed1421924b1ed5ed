// file: internal/handlers/web/ws.go
package web

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"speakerhub/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin pages only; the session cookie carries auth.
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	},
}

// badgeUpdate is the payload pushed when a mentor's pending count changes.
type badgeUpdate struct {
	Type         string `json:"type"`
	PendingCount int64  `json:"pending_count"`
}

// NotificationHub pushes badge updates to connected mentors over websockets.
type NotificationHub struct {
	mu     sync.RWMutex
	conns  map[int64]map[*websocket.Conn]struct{}
	logger *zap.Logger
}

// NewNotificationHub creates a hub and subscribes it to workflow events.
func NewNotificationHub(bus *events.Bus, logger *zap.Logger) *NotificationHub {
	hub := &NotificationHub{
		conns:  make(map[int64]map[*websocket.Conn]struct{}),
		logger: logger,
	}

	handler := func(ctx context.Context, e events.Event) error {
		me, ok := e.(*events.MentorshipEvent)
		if !ok {
			return nil
		}
		hub.notify(me.MentorID)
		return nil
	}
	bus.Subscribe(events.MentorshipRequested, handler)
	bus.Subscribe(events.MentorshipResponded, handler)
	bus.Subscribe(events.MentorshipCancelled, handler)

	return hub
}

// Subscribe upgrades the request and keeps the connection registered until
// the client goes away.
// GET /mentorship/ws
func (h *Handler) Subscribe(hub *NotificationHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := h.currentUserID(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("Websocket upgrade failed", zap.Error(err))
			return
		}

		hub.add(userID, conn)
		defer hub.remove(userID, conn)

		// Push the current count immediately so the badge is right on
		// connect.
		if count, err := h.services.MentorshipService.GetPendingCount(r.Context(), userID); err == nil {
			hub.send(conn, badgeUpdate{Type: "pending_count", PendingCount: count})
		}

		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		conn.SetReadLimit(512)
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					conn.Close()
					return
				}
			}
		}()

		for range ticker.C {
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (hub *NotificationHub) add(userID int64, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.conns[userID] == nil {
		hub.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	hub.conns[userID][conn] = struct{}{}
}

func (hub *NotificationHub) remove(userID int64, conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.conns[userID], conn)
	if len(hub.conns[userID]) == 0 {
		delete(hub.conns, userID)
	}
	conn.Close()
}

// notify signals the user's connections that their pending count changed.
// The client refetches the count over HTTP, which keeps the hub free of
// service dependencies.
func (hub *NotificationHub) notify(userID int64) {
	hub.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(hub.conns[userID]))
	for conn := range hub.conns[userID] {
		conns = append(conns, conn)
	}
	hub.mu.RUnlock()

	for _, conn := range conns {
		hub.send(conn, badgeUpdate{Type: "refresh"})
	}
}

func (hub *NotificationHub) send(conn *websocket.Conn, update badgeUpdate) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(update); err != nil {
		hub.logger.Debug("Websocket write failed", zap.Error(err))
		conn.Close()
	}
}
