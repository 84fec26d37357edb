package registry

import (
	"sync"

	"github.com/mcoot/tictacgame-go/internal/protocol"
)

// Conn is a live client connection the registry can deliver envelopes to.
// Send must be safe for concurrent use and must not block the caller.
type Conn interface {
	SessionID() string
	Send(env protocol.Envelope)
}

// Registry maps a session id to the single live connection currently bound
// to it, and tracks which sessions have authenticated. It is the join point
// between the transport's connection set and the rest of the system: every
// peer lookup goes through Resolve, and a miss is the normal
// "peer unavailable" outcome, not a fault.
//
// The registry is internally synchronized; callers never hold its lock
// across storage calls.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
	users map[string]string // sid -> userName for authenticated sessions
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		conns: make(map[string]Conn),
		users: make(map[string]string),
	}
}

// Bind associates a session id with a live connection. A later Bind for the
// same session id replaces the earlier connection.
func (r *Registry) Bind(sid string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[sid] = conn
}

// Unbind removes the connection's binding. Authentication state is bound to
// the connection's lifetime, so it is dropped too. If the session id has
// since been rebound to a newer connection, that binding is left intact.
func (r *Registry) Unbind(conn Conn) {
	sid := conn.SessionID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[sid]; ok && current == conn {
		delete(r.conns, sid)
		delete(r.users, sid)
	}
}

// Resolve returns the live connection for a session id. ok is false when no
// live connection currently carries that session id.
func (r *Registry) Resolve(sid string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[sid]
	return conn, ok
}

// MarkAuthenticated records a successful login for the session
func (r *Registry) MarkAuthenticated(sid, userName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[sid] = userName
}

// IsAuthenticated reports whether the session has logged in
func (r *Registry) IsAuthenticated(sid string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[sid]
	return ok
}

// UserName returns the user name bound to an authenticated session
func (r *Registry) UserName(sid string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userName, ok := r.users[sid]
	return userName, ok
}

// AllExcept returns every live connection except the one bound to the given
// session id
func (r *Registry) AllExcept(sid string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]Conn, 0, len(r.conns))
	for s, conn := range r.conns {
		if s != sid {
			conns = append(conns, conn)
		}
	}
	return conns
}

// LiveSidsExcept returns the session ids of every live connection except the
// given one
func (r *Registry) LiveSidsExcept(sid string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sids := make([]string, 0, len(r.conns))
	for s := range r.conns {
		if s != sid {
			sids = append(sids, s)
		}
	}
	return sids
}

// Broadcast delivers an envelope to every live connection except the one
// bound to the given session id
func (r *Registry) Broadcast(env protocol.Envelope, exceptSid string) {
	for _, conn := range r.AllExcept(exceptSid) {
		conn.Send(env)
	}
}
