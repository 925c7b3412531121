package hub

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-hub/contract"
	"chat-hub/domain/event"
	"chat-hub/errors"
)

// Router implements the send-and-fan-out protocol.
//
// Every send persists through the gateway first, then pushes the persisted
// copy to the resolved set of live connections. Pushes are best-effort and
// at-most-once per currently-connected target: no acknowledgment, no retry,
// no queuing for offline users beyond the durable message row itself.
type Router struct {
	log         *slog.Logger
	gateway     contract.Gateway
	registry    contract.IRegistry
	subs        contract.ISubscriptions
	pushTimeout time.Duration
}

func NewRouter(log *slog.Logger, gateway contract.Gateway,
	registry contract.IRegistry, subs contract.ISubscriptions,
	pushTimeout time.Duration) *Router {
	return &Router{
		log:         log,
		gateway:     gateway,
		registry:    registry,
		subs:        subs,
		pushTimeout: pushTimeout,
	}
}

// SendDirect persists a 1:1 message and delivers it live.
//
// The recipient receives a new_direct_message event only when currently
// bound; an offline recipient is not an error, the message stays durable
// and shows up on the next history fetch. The sender always receives a
// message_sent confirmation carrying the persisted copy.
func (r *Router) SendDirect(ctx context.Context, sender contract.Connection, recipientID, content string) error {
	authorID, ok := r.registry.UserOf(sender.ID)
	if !ok {
		return errors.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		// Rejected before any persistence attempt.
		return errors.ErrEmptyContent
	}

	msg, err := r.gateway.CreateDirectMessage(ctx, authorID, recipientID, content)
	if err != nil {
		return classifyGatewayErr(err)
	}

	if conn, online := r.registry.Lookup(recipientID); online {
		r.push(conn, event.NewDirectMessage{Message: msg})
	} else {
		r.log.Debug("Recipient offline, live delivery skipped",
			"recipient_id", recipientID, "message_id", msg.ID)
	}

	// Confirmation goes out regardless of the recipient's online state.
	r.push(sender, event.MessageSent{Message: msg})
	return nil
}

// SendGroup persists a group message and broadcasts it to every online
// member, the sender's own connection included; group sends get no separate
// confirmation event, the broadcast itself is the acknowledgment.
func (r *Router) SendGroup(ctx context.Context, sender contract.Connection, groupID, content string) error {
	authorID, ok := r.registry.UserOf(sender.ID)
	if !ok {
		return errors.ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return errors.ErrEmptyContent
	}

	msg, err := r.gateway.CreateGroupMessage(ctx, authorID, groupID, content)
	if err != nil {
		return classifyGatewayErr(err)
	}

	memberIDs, err := r.gateway.ResolveGroupMemberIDs(ctx, groupID)
	if err != nil {
		return classifyGatewayErr(err)
	}

	// Fan-out targets the group's durable membership: an online member
	// receives the broadcast even if it never issued a live join_group
	// this session. The registry read is a snapshot at push time; a member
	// disconnecting in between simply drops its push.
	delivered := 0
	for _, memberID := range memberIDs {
		conn, online := r.registry.Lookup(memberID)
		if !online {
			continue
		}
		r.push(conn, event.NewGroupMessage{Message: msg, GroupID: groupID})
		delivered++
	}
	r.log.Debug("Group message fanned out",
		"group_id", groupID, "message_id", msg.ID,
		"members", len(memberIDs), "delivered", delivered)
	return nil
}

// push hands an event to one live connection. Sinks never block, so a push
// can only drop, not stall; failures are logged and forgotten.
func (r *Router) push(conn contract.Connection, e event.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.pushTimeout)
	defer cancel()
	if err := conn.Sink.Consume(ctx, e); err != nil {
		r.log.Debug("Live push dropped",
			"conn_id", conn.ID, "action", e.Action(), "error", err)
	}
}

// classifyGatewayErr keeps the taxonomy sentinels intact and folds every
// other store failure into ErrPersistence. A persistence failure aborts the
// send entirely; nothing unpersisted is ever broadcast.
func classifyGatewayErr(err error) error {
	switch {
	case stderrors.Is(err, errors.ErrEmptyContent),
		stderrors.Is(err, errors.ErrUserNotFound),
		stderrors.Is(err, errors.ErrGroupNotFound),
		stderrors.Is(err, errors.ErrNotFriends),
		stderrors.Is(err, errors.ErrNotGroupMember):
		return err
	default:
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
}
