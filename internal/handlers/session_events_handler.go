package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ricepro-web/internal/middleware"
	"ricepro-web/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// SessionEventsHandler pushes signed_in / signed_out events of the
// requesting profile to its open tabs over a websocket.
type SessionEventsHandler struct {
	sessions *session.Manager
	upgrader websocket.Upgrader
}

func NewSessionEventsHandler(sessions *session.Manager) *SessionEventsHandler {
	return &SessionEventsHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *SessionEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.GetProfileFromContext(r.Context())
	if !ok {
		http.Error(w, "No browser profile", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SessionEvents] WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := h.sessions.Subscribe(profile)
	defer unsubscribe()

	// Reader: only pongs and close frames are expected
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
