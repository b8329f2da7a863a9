package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phrazzld/distill-api/internal/events"
	"github.com/phrazzld/distill-api/internal/platform/logger"
)

// writeWait bounds how long a single frame write to an observer may take
// before the connection is considered dead.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is left to the deployment in front of the service
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ProgressHandler upgrades HTTP requests to WebSocket connections and
// streams progress events to them.
type ProgressHandler struct {
	hub    *events.Hub
	logger *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(hub *events.Hub, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		hub:    hub,
		logger: logger.With(slog.String("component", "progress_handler")),
	}
}

// StreamProgress handles GET /api/ws/progress requests. Each connection is
// registered as an observer for the lifetime of the socket; every progress
// event broadcast while it is connected is pushed as one JSON text frame.
// Frames sent by the client are ignored; the read loop exists only to
// detect disconnection.
func (h *ProgressHandler) StreamProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error response
		log.Debug("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}
	defer func() { _ = conn.Close() }()

	ch := h.hub.Register()
	defer h.hub.Unregister(ch)

	log.Debug("progress observer connected", "remote_addr", r.RemoteAddr)

	// Reader: drain and discard client frames until the peer goes away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if writeErr := conn.WriteJSON(event); writeErr != nil {
				log.Debug("progress observer write failed, dropping observer",
					"error", writeErr, "remote_addr", r.RemoteAddr)
				return
			}
		case <-done:
			log.Debug("progress observer disconnected", "remote_addr", r.RemoteAddr)
			return
		}
	}
}
