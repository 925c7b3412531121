package repositories

import (
	"context"
	"strings"
	"time"

	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Gateway is the concrete persistence gateway consumed by the delivery
// router. It owns message creation end to end: reference validation,
// social-rule enforcement, author hydration and the durable append. The
// message it returns is the one broadcast live, so durable and live views
// can never diverge.
type Gateway struct {
	users       IUserRepository
	groups      IGroupRepository
	friendships IFriendshipRepository
	messages    IMessageRepository
}

var _ contract.Gateway = (*Gateway)(nil)

func NewGateway(users IUserRepository, groups IGroupRepository,
	friendships IFriendshipRepository, messages IMessageRepository) *Gateway {
	return &Gateway{
		users:       users,
		groups:      groups,
		friendships: friendships,
		messages:    messages,
	}
}

// CreateDirectMessage durably appends a 1:1 message. Direct messages are
// friend-gated: both accounts must exist and share an ACCEPTED friendship.
func (g *Gateway) CreateDirectMessage(_ context.Context, authorID, recipientID, content string) (domain.Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}

	author, err := g.users.GetUserByID(authorID)
	if err != nil {
		return domain.Message{}, err
	}
	if _, err := g.users.GetUserByID(recipientID); err != nil {
		return domain.Message{}, err
	}
	friends, err := g.friendships.AreFriends(authorID, recipientID)
	if err != nil {
		return domain.Message{}, err
	}
	if !friends {
		return domain.Message{}, errors.ErrNotFriends
	}

	message := domain.Message{
		ID:          uuid.New(),
		Content:     trimmed,
		AuthorID:    authorID,
		Author:      author.Info(),
		RecipientID: lo.ToPtr(recipientID),
		CreatedAt:   time.Now().UTC(),
	}
	if err := g.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// CreateGroupMessage durably appends a group message. The author must be a
// current member of an existing group.
func (g *Gateway) CreateGroupMessage(_ context.Context, authorID, groupID, content string) (domain.Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}

	author, err := g.users.GetUserByID(authorID)
	if err != nil {
		return domain.Message{}, err
	}
	if _, err := g.groups.GetGroup(groupID); err != nil {
		return domain.Message{}, err
	}
	member, err := g.groups.IsMember(groupID, authorID)
	if err != nil {
		return domain.Message{}, err
	}
	if !member {
		return domain.Message{}, errors.ErrNotGroupMember
	}

	message := domain.Message{
		ID:        uuid.New(),
		Content:   trimmed,
		AuthorID:  authorID,
		Author:    author.Info(),
		GroupID:   lo.ToPtr(groupID),
		CreatedAt: time.Now().UTC(),
	}
	if err := g.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// ResolveGroupMemberIDs returns every current member of the group,
// deterministically ordered.
func (g *Gateway) ResolveGroupMemberIDs(_ context.Context, groupID string) ([]string, error) {
	return g.groups.MemberIDs(groupID)
}
