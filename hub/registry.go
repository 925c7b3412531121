package hub

import (
	"sync"

	"chat-hub/contract"
)

// Registry maps a user identity to its currently active live connection.
//
// The mapping is strictly 1:1 and replaceable: a later Bind for the same
// user replaces the earlier connection (last-connection-wins, no
// multi-device fan-out). A reverse conn-to-user index makes Unbind O(1)
// and lets a stale disconnect racing a reconnect resolve as a no-op.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]contract.Connection
	byConn map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]contract.Connection),
		byConn: make(map[string]string),
	}
}

// Bind records or overwrites the mapping for userID. Idempotent, no error
// conditions. Both indexes are updated under one lock so a Bind racing an
// Unbind never observes a half-updated reverse mapping.
func (r *Registry) Bind(userID string, conn contract.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Drop the previous connection's reverse entry so its eventual
	// disconnect cannot evict the newer binding.
	if old, ok := r.byUser[userID]; ok {
		delete(r.byConn, old.ID)
	}
	// A handle can serve at most one user; rebinding it elsewhere first
	// releases the identity it served before.
	if prevUser, ok := r.byConn[conn.ID]; ok && prevUser != userID {
		delete(r.byUser, prevUser)
	}

	r.byUser[userID] = conn
	r.byConn[conn.ID] = userID
}

// Lookup returns the live connection bound to userID.
// A false result means the user is offline; that is not an error.
func (r *Registry) Lookup(userID string) (contract.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// UserOf resolves the identity bound to a connection handle.
func (r *Registry) UserOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.byConn[connID]
	return userID, ok
}

// Unbind removes the mapping owned by connID. If the user has already been
// rebound to a newer connection, the call is a no-op: the stale handle no
// longer appears in the reverse index.
func (r *Registry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	if cur, ok := r.byUser[userID]; ok && cur.ID == connID {
		delete(r.byUser, userID)
	}
}

// Online returns the number of users currently bound to a connection.
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
