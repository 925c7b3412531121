package services

import (
	"testing"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/mocks"
	"chat-hub/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type historyFixture struct {
	users    *mocks.MockIUserRepository
	groups   *mocks.MockIGroupRepository
	messages *mocks.MockIMessageRepository
	svc      IHistoryService
}

func newHistoryFixture(t *testing.T) historyFixture {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	groups := mocks.NewMockIGroupRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	return historyFixture{
		users:    users,
		groups:   groups,
		messages: messages,
		svc:      NewHistoryService(users, groups, messages),
	}
}

func TestHistoryService_GroupHistory_Is_Member_Gated(t *testing.T) {
	req := require.New(t)
	fixture := newHistoryFixture(t)

	fixture.groups.EXPECT().IsMember("g1", "outsider").Return(false, nil)
	fixture.messages.EXPECT().GetGroupMessages(gomock.Any(), gomock.Any()).Times(0)

	_, _, err := fixture.svc.GroupHistory("outsider", "g1", nil)

	req.ErrorIs(err, errors.ErrNotGroupMember)
}

func TestHistoryService_DirectHistory_Checks_Partner(t *testing.T) {
	req := require.New(t)
	fixture := newHistoryFixture(t)

	fixture.users.EXPECT().GetUserByID("ghost").
		Return(repositories.User{}, errors.ErrUserNotFound)

	_, _, err := fixture.svc.DirectHistory("me", "ghost", nil)

	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestHistoryService_Conversations_Merges_Groups_And_Direct(t *testing.T) {
	req := require.New(t)
	fixture := newHistoryFixture(t)

	lastMessage := domain.Message{
		ID: uuid.New(), Content: "see you", AuthorID: "bob",
		CreatedAt: time.Now().UTC(),
	}
	fixture.groups.EXPECT().GroupsForUser("me").
		Return([]domain.Group{{ID: "g1", Name: "team"}}, nil)
	fixture.messages.EXPECT().DirectConversations("me").
		Return([]repositories.ConversationEntry{
			{PartnerID: "bob", LastMessage: lastMessage},
			{PartnerID: "deleted", LastMessage: lastMessage},
		}, nil)
	fixture.users.EXPECT().GetUserByID("bob").
		Return(repositories.User{ID: "bob", Username: "bob"}, nil)
	fixture.users.EXPECT().GetUserByID("deleted").
		Return(repositories.User{}, errors.ErrUserNotFound)

	conversations, err := fixture.svc.Conversations("me")

	req.NoError(err)
	req.Len(conversations.Groups, 1)
	// The entry whose partner account no longer exists is dropped
	req.Len(conversations.Direct, 1)
	req.Equal("bob", conversations.Direct[0].Partner.Username)
	req.Equal("see you", conversations.Direct[0].LastMessage.Content)
}
