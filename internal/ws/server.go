package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
)

// SessionCookieName carries the session id across reconnects of the same
// browser session
const SessionCookieName = "gamesid"

// Handler upgrades HTTP requests to websocket connections. Each accepted
// connection is tagged with a stable session identifier (from the session
// cookie, or freshly minted), bound in the registry, and immediately sent
// the init event carrying that identifier.
type Handler struct {
	registry *registry.Registry
	router   *Router
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHandler creates a websocket Handler
func NewHandler(reg *registry.Registry, router *Router, logger *slog.Logger) *Handler {
	return &Handler{
		registry: reg,
		router:   router,
		logger:   logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxMessageSize,
			WriteBufferSize: maxMessageSize,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin policy is enforced by the deployment, not here
				return true
			},
		},
		clients: make(map[*Client]struct{}),
	}
}

// ServeHTTP handles the websocket upgrade
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(r)

	header := http.Header{}
	header.Add("Set-Cookie", (&http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	}).String())

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(sid, conn, h.registry, h.router, h.logger)
	h.registry.Bind(sid, client)
	h.track(client)

	h.logger.Info("connection established", slog.String("sid", sid))

	// Fire the init message so the client learns its session id
	client.Send(protocol.OK(protocol.EventInit, sid))

	client.Run(r.Context())
	h.untrack(client)
}

// Shutdown closes every live connection
func (h *Handler) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}

// sessionID extracts the session id from the request cookie, or mints a new
// one for a first-time connection
func (h *Handler) sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return uuid.NewString()
}

func (h *Handler) track(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Handler) untrack(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}
