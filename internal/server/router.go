package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictacgame-go/internal/middleware"
	"github.com/mcoot/tictacgame-go/internal/ws"
)

// RouterConfig holds configuration for the HTTP router
type RouterConfig struct {
	Logger    *slog.Logger
	WSHandler *ws.Handler
}

// NewRouter creates the HTTP router. The game protocol runs entirely over
// the websocket endpoint; everything else here is plumbing.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.Handle("/ws", cfg.WSHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
