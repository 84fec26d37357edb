package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Buffer size for outgoing envelopes
	sendBufferSize = 256
)

// Client is the middleman between one websocket connection and the rest of
// the system. It reads inbound frames serially (each connection processes
// its own events strictly in arrival order) and writes outbound envelopes
// from a buffered channel, so Send never blocks a caller.
type Client struct {
	sid    string
	conn   *websocket.Conn
	send   chan protocol.Envelope
	done   chan struct{}
	router *Router
	logger *slog.Logger

	registry *registry.Registry
	once     sync.Once
}

// Ensure Client satisfies the registry's connection contract
var _ registry.Conn = (*Client)(nil)

// NewClient creates a Client bound to a session id
func NewClient(sid string, conn *websocket.Conn, reg *registry.Registry, router *Router, logger *slog.Logger) *Client {
	return &Client{
		sid:      sid,
		conn:     conn,
		send:     make(chan protocol.Envelope, sendBufferSize),
		done:     make(chan struct{}),
		router:   router,
		registry: reg,
		logger:   logger.With(slog.String("sid", sid)),
	}
}

// SessionID returns the session id this connection is bound to
func (c *Client) SessionID() string {
	return c.sid
}

// Send queues an envelope for delivery. Delivery is fire-and-forget: if the
// client's buffer is full the connection is considered unresponsive and torn
// down.
func (c *Client) Send(env protocol.Envelope) {
	select {
	case <-c.done:
	case c.send <- env:
	default:
		c.logger.Warn("send buffer full, closing connection")
		c.destroy()
	}
}

// Run starts the read and write pumps and blocks until the connection is
// closed. The caller is responsible for having bound the client in the
// registry first.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

// Close tears the connection down
func (c *Client) Close() {
	c.destroy()
}

// destroy unbinds the client and closes the socket, at most once
func (c *Client) destroy() {
	c.once.Do(func() {
		c.registry.Unbind(c)
		close(c.done)
		_ = c.conn.Close()
		c.logger.Info("connection closed")
	})
}

// readPump pumps inbound frames from the websocket to the event router
func (c *Client) readPump(ctx context.Context) {
	defer c.destroy()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		var req protocol.Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.logger.Warn("malformed frame", slog.String("error", err.Error()))
			continue
		}

		c.router.Dispatch(ctx, c, req)
	}
}

// writePump pumps envelopes from the send channel to the websocket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.destroy()
	}()

	for {
		select {
		case env := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
