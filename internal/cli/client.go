package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/ws"
)

const (
	dialTimeout = 10 * time.Second
	callTimeout = 30 * time.Second
)

// wireEnvelope mirrors protocol.Envelope with the result left raw so each
// command can decode it into its own type
type wireEnvelope struct {
	Event   string          `json:"event"`
	OK      bool            `json:"ok"`
	Result  json.RawMessage `json:"result"`
	IsError bool            `json:"isError"`
	Error   string          `json:"error"`
}

// Client is a websocket client for the game protocol
type Client struct {
	serverURL string
	sid       string
	verbose   bool
	conn      *websocket.Conn
}

// NewClient creates a client for the given server. The session id may be
// empty; the server will mint one on connect.
func NewClient(serverURL, sid string, verbose bool) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		sid:       sid,
		verbose:   verbose,
	}
}

// Sid returns the session id assigned by the server
func (c *Client) Sid() string {
	return c.sid
}

// Dial connects to the server's websocket endpoint and consumes the init
// event, recording the session id the server assigned
func (c *Client) Dial(ctx context.Context) error {
	wsURL, err := websocketURL(c.serverURL)
	if err != nil {
		return err
	}

	header := http.Header{}
	if c.sid != "" {
		header.Set("Cookie", (&http.Cookie{Name: ws.SessionCookieName, Value: c.sid}).String())
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	c.conn = conn

	if resp != nil {
		for _, cookie := range resp.Cookies() {
			if cookie.Name == ws.SessionCookieName {
				c.sid = cookie.Value
			}
		}
	}

	env, err := c.Next(ctx)
	if err != nil {
		return fmt.Errorf("no init event: %w", err)
	}
	if env.Event != protocol.EventInit {
		return fmt.Errorf("expected init event, got %q", env.Event)
	}

	var sid string
	if err := json.Unmarshal(env.Result, &sid); err == nil && sid != "" {
		c.sid = sid
	}

	return nil
}

// Close shuts down the connection
func (c *Client) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Send writes a request without waiting for a response. Some operations
// (declining an invite) are fire-and-forget on the wire.
func (c *Client) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := c.conn.WriteJSON(protocol.Request{Event: event, Data: data}); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

// Call sends a request and waits for the response envelope carrying the
// given event name. Server-pushed events arriving in the meantime are
// printed in verbose mode and otherwise dropped.
func (c *Client) Call(ctx context.Context, event string, payload, result any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, callTimeout)
		defer cancel()
	}

	if err := c.Send(event, payload); err != nil {
		return err
	}

	for {
		env, err := c.Next(ctx)
		if err != nil {
			return err
		}

		if env.Event != event {
			if c.verbose {
				printEnvelope(env)
			}
			continue
		}

		if env.IsError {
			return fmt.Errorf("%s", env.Error)
		}

		if result != nil && len(env.Result) > 0 {
			if err := json.Unmarshal(env.Result, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}
}

// Next reads the next envelope from the server. Blocks without limit
// unless the context carries a deadline.
func (c *Client) Next(ctx context.Context) (*wireEnvelope, error) {
	var deadline time.Time
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	var env wireEnvelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return nil, fmt.Errorf("connection lost: %w", err)
	}
	return &env, nil
}

// Login authenticates the connection with the configured credentials
func (c *Client) Login(ctx context.Context, userName, password string) error {
	if userName == "" || password == "" {
		return fmt.Errorf("credentials required: set --user/--pass or GAMECLI_USER/GAMECLI_PASSWORD")
	}
	payload := map[string]string{"userName": userName, "password": password}
	return c.Call(ctx, protocol.EventLogin, payload, nil)
}

// websocketURL converts the configured http(s) server URL to the ws(s)
// endpoint URL
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}
