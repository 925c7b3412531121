package hub

import "sync"

type set map[string]struct{}

// Subscriptions is the per-connection group-subscription table.
//
// It records which group channels a connection has joined for live
// delivery. Subscriptions are transient: every entry for a connection is
// removed at the latest when that connection disconnects. Durable group
// membership (who is allowed in a group) lives in the persistence layer,
// not here.
type Subscriptions struct {
	mu      sync.RWMutex
	byConn  map[string]set
	byGroup map[string]set
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{
		byConn:  make(map[string]set),
		byGroup: make(map[string]set),
	}
}

// Join adds the (conn, group) entry. Joining twice is a no-op.
func (s *Subscriptions) Join(connID, groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byConn[connID]; !ok {
		s.byConn[connID] = make(set)
	}
	s.byConn[connID][groupID] = struct{}{}

	if _, ok := s.byGroup[groupID]; !ok {
		s.byGroup[groupID] = make(set)
	}
	s.byGroup[groupID][connID] = struct{}{}
}

// Leave removes the entry if present; no-op otherwise.
func (s *Subscriptions) Leave(connID, groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked(connID, groupID)
}

// Purge removes every entry for the connection. Called exactly once, at
// disconnect; no dangling subscription survives a closed connection.
func (s *Subscriptions) Purge(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for groupID := range s.byConn[connID] {
		s.leaveLocked(connID, groupID)
	}
}

// ConnsForGroup returns the connections currently subscribed to a group.
// Delivery does not consult this table (fan-out targets resolved durable
// members); it serves presence queries and diagnostics.
func (s *Subscriptions) ConnsForGroup(groupID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns, ok := s.byGroup[groupID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(conns))
	for connID := range conns {
		out = append(out, connID)
	}
	return out
}

func (s *Subscriptions) leaveLocked(connID, groupID string) {
	if groups, ok := s.byConn[connID]; ok {
		delete(groups, groupID)
		if len(groups) == 0 {
			delete(s.byConn, connID)
		}
	}
	if conns, ok := s.byGroup[groupID]; ok {
		delete(conns, connID)
		// No empty sets are left behind to prevent memory leaks over time.
		if len(conns) == 0 {
			delete(s.byGroup, groupID)
		}
	}
}
