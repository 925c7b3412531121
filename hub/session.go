package hub

import (
	"context"
	"log/slog"
	"sync"

	"chat-hub/contract"
	"chat-hub/errors"

	"github.com/google/uuid"
)

type sessionState int

const (
	stateUnbound sessionState = iota
	stateBound
	stateClosed
)

// Session manages the lifecycle of one live connection.
//
// A session starts unbound: only a Bind transition is accepted, every send
// or group action fails with ErrUnauthenticated. Once bound it accepts
// sends and group join/leave repeatedly, in any order. Close is terminal:
// the session unbinds from the registry, purges its subscriptions and
// accepts nothing further. An in-flight send racing Close may still
// persist; its push step tolerates the registry miss.
type Session struct {
	mu       sync.Mutex
	id       string
	state    sessionState
	userID   string
	log      *slog.Logger
	registry contract.IRegistry
	subs     contract.ISubscriptions
	router   *Router
	sink     contract.EventSink
}

func NewSession(log *slog.Logger, registry contract.IRegistry,
	subs contract.ISubscriptions, router *Router, sink contract.EventSink) *Session {
	return &Session{
		id:       uuid.NewString(),
		state:    stateUnbound,
		log:      log,
		registry: registry,
		subs:     subs,
		router:   router,
		sink:     sink,
	}
}

func (s *Session) ID() string { return s.id }

// UserID returns the bound identity, empty while unbound.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Bind attaches an authenticated identity to the connection. A later bind
// for the same user elsewhere replaces this mapping in the registry;
// binding an already closed session is a no-op.
func (s *Session) Bind(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return errors.ErrUnauthenticated
	}
	s.userID = userID
	s.state = stateBound
	s.registry.Bind(userID, contract.Connection{ID: s.id, Sink: s.sink})
	s.log.Debug("Connection bound", "conn_id", s.id, "user_id", userID)
	return nil
}

func (s *Session) SendDirect(ctx context.Context, recipientID, content string) error {
	conn, err := s.boundConn()
	if err != nil {
		return err
	}
	return s.router.SendDirect(ctx, conn, recipientID, content)
}

func (s *Session) SendGroup(ctx context.Context, groupID, content string) error {
	conn, err := s.boundConn()
	if err != nil {
		return err
	}
	return s.router.SendGroup(ctx, conn, groupID, content)
}

func (s *Session) JoinGroup(groupID string) error {
	if _, err := s.boundConn(); err != nil {
		return err
	}
	s.subs.Join(s.id, groupID)
	return nil
}

func (s *Session) LeaveGroup(groupID string) error {
	if _, err := s.boundConn(); err != nil {
		return err
	}
	s.subs.Leave(s.id, groupID)
	return nil
}

// Close runs the disconnect cleanup: deregistration from the registry and
// removal of every subscription entry. Safe to call from any prior state,
// effective once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return
	}
	s.state = stateClosed
	s.registry.Unbind(s.id)
	s.subs.Purge(s.id)
	s.log.Debug("Connection closed", "conn_id", s.id, "user_id", s.userID)
}

func (s *Session) boundConn() (contract.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateBound {
		return contract.Connection{}, errors.ErrUnauthenticated
	}
	return contract.Connection{ID: s.id, Sink: s.sink}, nil
}
