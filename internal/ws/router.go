package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
)

// HandlerFunc processes one inbound event for a connection. Handlers run on
// the connection's read goroutine, so events from one connection are handled
// strictly in arrival order while different connections interleave freely.
type HandlerFunc func(ctx context.Context, conn registry.Conn, data json.RawMessage)

// Router dispatches inbound events to their registered handlers
type Router struct {
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

// NewRouter creates an empty Router
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger.With(slog.String("component", "ws")),
	}
}

// Handle registers a handler for an event name
func (r *Router) Handle(event string, h HandlerFunc) {
	r.handlers[event] = h
}

// Dispatch routes a request to its handler. Unknown events get an error
// envelope back rather than being silently dropped.
func (r *Router) Dispatch(ctx context.Context, conn registry.Conn, req protocol.Request) {
	h, ok := r.handlers[req.Event]
	if !ok {
		r.logger.Warn("unknown event",
			slog.String("event", req.Event),
			slog.String("sid", conn.SessionID()),
		)
		conn.Send(protocol.Error(req.Event, "Unknown event"))
		return
	}
	h(ctx, conn, req.Data)
}
