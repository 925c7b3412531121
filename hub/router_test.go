package hub

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/mocks"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerFixture struct {
	router   *Router
	gateway  *mocks.MockGateway
	registry *Registry
	subs     *Subscriptions
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	registry := NewRegistry()
	subs := NewSubscriptions()
	router := NewRouter(logs.GetLoggerFromLevel(slog.LevelDebug),
		gateway, registry, subs, time.Second)
	return routerFixture{router: router, gateway: gateway, registry: registry, subs: subs}
}

func bind(f routerFixture, userID string) (contract.Connection, *Sink) {
	sink := NewSink(16)
	conn := contract.Connection{ID: uuid.NewString(), Sink: sink}
	f.registry.Bind(userID, conn)
	return conn, sink
}

func drain(s *Sink) []event.Event {
	var out []event.Event
	for {
		select {
		case e := <-s.Events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestRouter_SendDirect_Recipient_Online(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	userA := uuid.NewString()
	userB := uuid.NewString()
	connA, sinkA := bind(f, userA)
	_, sinkB := bind(f, userB)

	persisted := domain.Message{
		ID:          uuid.New(),
		Content:     "hi",
		AuthorID:    userA,
		RecipientID: lo.ToPtr(userB),
		CreatedAt:   time.Now().UTC(),
	}
	f.gateway.EXPECT().
		CreateDirectMessage(gomock.Any(), userA, userB, "hi").
		Return(persisted, nil).
		Times(1)

	err := f.router.SendDirect(context.Background(), connA, userB, "hi")
	req.NoError(err)

	// The recipient sees the persisted copy as a new_direct_message
	eventsB := drain(sinkB)
	req.Len(eventsB, 1)
	delivery, ok := eventsB[0].(event.NewDirectMessage)
	req.True(ok)
	req.Equal("hi", delivery.Message.Content)
	req.Equal(userA, delivery.Message.AuthorID)

	// The sender gets a message_sent confirmation with the same message
	eventsA := drain(sinkA)
	req.Len(eventsA, 1)
	confirmation, ok := eventsA[0].(event.MessageSent)
	req.True(ok)
	req.Equal(persisted, confirmation.Message)
}

func TestRouter_SendDirect_Recipient_Offline(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	userA := uuid.NewString()
	userB := uuid.NewString() // never bound
	connA, sinkA := bind(f, userA)

	persisted := domain.Message{
		ID:          uuid.New(),
		Content:     "hi",
		AuthorID:    userA,
		RecipientID: lo.ToPtr(userB),
	}
	// The message is persisted exactly once even with nobody to push to
	f.gateway.EXPECT().
		CreateDirectMessage(gomock.Any(), userA, userB, "hi").
		Return(persisted, nil).
		Times(1)

	err := f.router.SendDirect(context.Background(), connA, userB, "hi")
	req.NoError(err)

	// The sender still receives its confirmation
	eventsA := drain(sinkA)
	req.Len(eventsA, 1)
	req.IsType(event.MessageSent{}, eventsA[0])
}

func TestRouter_SendGroup_Fanout_Includes_Sender(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	groupID := uuid.NewString()
	userA := uuid.NewString()
	userB := uuid.NewString()
	userC := uuid.NewString()
	connA, sinkA := bind(f, userA)
	_, sinkB := bind(f, userB)
	_, sinkC := bind(f, userC)

	persisted := domain.Message{
		ID:       uuid.New(),
		Content:  "yo",
		AuthorID: userA,
		GroupID:  lo.ToPtr(groupID),
	}
	f.gateway.EXPECT().
		CreateGroupMessage(gomock.Any(), userA, groupID, "yo").
		Return(persisted, nil).
		Times(1)
	f.gateway.EXPECT().
		ResolveGroupMemberIDs(gomock.Any(), groupID).
		Return([]string{userA, userB, userC}, nil).
		Times(1)

	err := f.router.SendGroup(context.Background(), connA, groupID, "yo")
	req.NoError(err)

	// Every online member gets exactly one tagged broadcast, sender included
	for _, sink := range []*Sink{sinkA, sinkB, sinkC} {
		events := drain(sink)
		req.Len(events, 1)
		broadcast, ok := events[0].(event.NewGroupMessage)
		req.True(ok)
		req.Equal(groupID, broadcast.GroupID)
		req.Equal("yo", broadcast.Message.Content)
	}
}

func TestRouter_SendGroup_Skips_Offline_Members(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	groupID := uuid.NewString()
	userA := uuid.NewString()
	userB := uuid.NewString() // member, offline
	connA, sinkA := bind(f, userA)

	persisted := domain.Message{ID: uuid.New(), Content: "yo", AuthorID: userA, GroupID: lo.ToPtr(groupID)}
	f.gateway.EXPECT().CreateGroupMessage(gomock.Any(), userA, groupID, "yo").Return(persisted, nil)
	f.gateway.EXPECT().ResolveGroupMemberIDs(gomock.Any(), groupID).Return([]string{userA, userB}, nil)

	req.NoError(f.router.SendGroup(context.Background(), connA, groupID, "yo"))
	req.Len(drain(sinkA), 1)
}

func TestRouter_Unbound_Sender_Is_Rejected(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	// No EXPECT on the gateway: any persistence call fails the test
	stray := contract.Connection{ID: uuid.NewString(), Sink: NewSink(1)}

	err := f.router.SendDirect(context.Background(), stray, uuid.NewString(), "hi")
	req.ErrorIs(err, errors.ErrUnauthenticated)

	err = f.router.SendGroup(context.Background(), stray, uuid.NewString(), "hi")
	req.ErrorIs(err, errors.ErrUnauthenticated)
}

func TestRouter_Blank_Content_Is_Rejected_Before_Persistence(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	userA := uuid.NewString()
	connA, _ := bind(f, userA)

	err := f.router.SendGroup(context.Background(), connA, uuid.NewString(), "   ")
	req.ErrorIs(err, errors.ErrEmptyContent)

	err = f.router.SendDirect(context.Background(), connA, uuid.NewString(), "")
	req.ErrorIs(err, errors.ErrEmptyContent)
}

func TestRouter_Persistence_Failure_Aborts_Send(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	userA := uuid.NewString()
	userB := uuid.NewString()
	connA, sinkA := bind(f, userA)
	_, sinkB := bind(f, userB)

	f.gateway.EXPECT().
		CreateDirectMessage(gomock.Any(), userA, userB, "hi").
		Return(domain.Message{}, fmt.Errorf("disk full"))

	err := f.router.SendDirect(context.Background(), connA, userB, "hi")
	req.ErrorIs(err, errors.ErrPersistence)

	// Nothing unpersisted is broadcast, not even the confirmation
	req.Empty(drain(sinkA))
	req.Empty(drain(sinkB))
}

func TestRouter_Group_Gone_Aborts_Before_Any_Push(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)
	groupID := uuid.NewString()
	userA := uuid.NewString()
	connA, sinkA := bind(f, userA)

	persisted := domain.Message{ID: uuid.New(), Content: "yo", AuthorID: userA, GroupID: lo.ToPtr(groupID)}
	f.gateway.EXPECT().CreateGroupMessage(gomock.Any(), userA, groupID, "yo").Return(persisted, nil)
	f.gateway.EXPECT().ResolveGroupMemberIDs(gomock.Any(), groupID).
		Return(nil, errors.ErrGroupNotFound)

	err := f.router.SendGroup(context.Background(), connA, groupID, "yo")
	req.ErrorIs(err, errors.ErrGroupNotFound)
	req.Empty(drain(sinkA))
}
