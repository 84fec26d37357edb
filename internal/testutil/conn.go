package testutil

import (
	"sync"

	"github.com/mcoot/tictacgame-go/internal/protocol"
)

// FakeConn is an in-memory connection that records every envelope sent to
// it. Satisfies registry.Conn.
type FakeConn struct {
	sid string

	mu   sync.Mutex
	sent []protocol.Envelope
}

// NewFakeConn creates a FakeConn with the given session id
func NewFakeConn(sid string) *FakeConn {
	return &FakeConn{sid: sid}
}

// SessionID returns the connection's session id
func (c *FakeConn) SessionID() string {
	return c.sid
}

// Send records the envelope
func (c *FakeConn) Send(env protocol.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, env)
}

// Sent returns a copy of every envelope sent so far
func (c *FakeConn) Sent() []protocol.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Envelope(nil), c.sent...)
}

// SentFor returns the envelopes sent for the given event name
func (c *FakeConn) SentFor(event string) []protocol.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []protocol.Envelope
	for _, env := range c.sent {
		if env.Event == event {
			out = append(out, env)
		}
	}
	return out
}

// Last returns the most recently sent envelope
func (c *FakeConn) Last() (protocol.Envelope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return protocol.Envelope{}, false
	}
	return c.sent[len(c.sent)-1], true
}

// Reset discards recorded envelopes
func (c *FakeConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}
