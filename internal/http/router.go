package httpx

import (
	"log/slog"
	"net/http"

	"realtime-chat/internal/app"
	"realtime-chat/internal/chat"
	"realtime-chat/pkg/metrics"
)

// NewRouter wires up the HTTP surface: health, metrics, and the chat
// websocket endpoint
func NewRouter(cfg app.Config, logger *slog.Logger, hub *chat.Hub) http.Handler {
	mw := NewMiddleware(cfg)

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	logger.Debug("router.ready")
	return mw.Wrap(mux)
}
