package hub

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/mocks"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type sessionFixture struct {
	gateway  *mocks.MockGateway
	registry *Registry
	subs     *Subscriptions
	session  *Session
	sink     *Sink
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	registry := NewRegistry()
	subs := NewSubscriptions()
	router := NewRouter(log, gateway, registry, subs, time.Second)
	sink := NewSink(16)
	return sessionFixture{
		gateway:  gateway,
		registry: registry,
		subs:     subs,
		session:  NewSession(log, registry, subs, router, sink),
		sink:     sink,
	}
}

func TestSession_Actions_Before_Bind_Are_Rejected(t *testing.T) {
	req := require.New(t)
	f := newSessionFixture(t)

	// No EXPECT on the gateway: a persistence call would fail the test
	err := f.session.SendDirect(context.Background(), uuid.NewString(), "hi")
	req.ErrorIs(err, errors.ErrUnauthenticated)

	err = f.session.SendGroup(context.Background(), uuid.NewString(), "hi")
	req.ErrorIs(err, errors.ErrUnauthenticated)

	req.ErrorIs(f.session.JoinGroup(uuid.NewString()), errors.ErrUnauthenticated)
	req.ErrorIs(f.session.LeaveGroup(uuid.NewString()), errors.ErrUnauthenticated)
}

func TestSession_Bind_Registers_The_Connection(t *testing.T) {
	req := require.New(t)
	f := newSessionFixture(t)
	userID := uuid.NewString()

	req.NoError(f.session.Bind(userID))
	req.Equal(userID, f.session.UserID())

	conn, ok := f.registry.Lookup(userID)
	req.True(ok)
	req.Equal(f.session.ID(), conn.ID)
}

func TestSession_Bound_Accepts_Group_Join_And_Leave(t *testing.T) {
	req := require.New(t)
	f := newSessionFixture(t)
	groupID := uuid.NewString()

	req.NoError(f.session.Bind(uuid.NewString()))
	req.NoError(f.session.JoinGroup(groupID))
	req.Equal([]string{f.session.ID()}, f.subs.ConnsForGroup(groupID))

	req.NoError(f.session.LeaveGroup(groupID))
	req.Empty(f.subs.ConnsForGroup(groupID))
}

func TestSession_Bound_Sends_Through_The_Router(t *testing.T) {
	req := require.New(t)
	f := newSessionFixture(t)
	userID := uuid.NewString()
	recipientID := uuid.NewString()

	req.NoError(f.session.Bind(userID))

	persisted := domain.Message{
		ID:          uuid.New(),
		Content:     "hi",
		AuthorID:    userID,
		RecipientID: lo.ToPtr(recipientID),
	}
	f.gateway.EXPECT().
		CreateDirectMessage(gomock.Any(), userID, recipientID, "hi").
		Return(persisted, nil).
		Times(1)

	req.NoError(f.session.SendDirect(context.Background(), recipientID, "hi"))
}

func TestSession_Close_Purges_Registry_And_Subscriptions(t *testing.T) {
	req := require.New(t)
	f := newSessionFixture(t)
	userID := uuid.NewString()
	group1 := uuid.NewString()
	group2 := uuid.NewString()

	req.NoError(f.session.Bind(userID))
	req.NoError(f.session.JoinGroup(group1))
	req.NoError(f.session.JoinGroup(group2))

	f.session.Close()

	_, ok := f.registry.Lookup(userID)
	req.False(ok)
	req.Empty(f.subs.ConnsForGroup(group1))
	req.Empty(f.subs.ConnsForGroup(group2))

	// Closed is terminal: nothing further is accepted
	req.ErrorIs(f.session.SendDirect(context.Background(), uuid.NewString(), "hi"), errors.ErrUnauthenticated)
	req.ErrorIs(f.session.Bind(userID), errors.ErrUnauthenticated)

	// A second close stays a no-op
	f.session.Close()
}

func TestSession_Close_After_Reconnect_Keeps_New_Binding(t *testing.T) {
	req := require.New(t)
	f := newSessionFixture(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	userID := uuid.NewString()

	// Given the same user reconnected on a second session
	req.NoError(f.session.Bind(userID))
	router := NewRouter(log, f.gateway, f.registry, f.subs, time.Second)
	replacement := NewSession(log, f.registry, f.subs, router, NewSink(16))
	req.NoError(replacement.Bind(userID))

	// When the stale session closes late
	f.session.Close()

	// Then the reconnected session stays bound
	conn, ok := f.registry.Lookup(userID)
	req.True(ok)
	req.Equal(replacement.ID(), conn.ID)
}
