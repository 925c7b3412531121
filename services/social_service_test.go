package services

import (
	"testing"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/mocks"
	"chat-hub/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type socialFixture struct {
	users       *mocks.MockIUserRepository
	friendships *mocks.MockIFriendshipRepository
	groups      *mocks.MockIGroupRepository
	svc         ISocialService
}

func newSocialFixture(t *testing.T) socialFixture {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	friendships := mocks.NewMockIFriendshipRepository(ctrl)
	groups := mocks.NewMockIGroupRepository(ctrl)
	return socialFixture{
		users:       users,
		friendships: friendships,
		groups:      groups,
		svc:         NewSocialService(users, friendships, groups),
	}
}

func storedUser(id, username string) repositories.User {
	return repositories.User{ID: id, Username: username, FirstName: "F", LastName: "L"}
}

func TestSocialService_ListFriends(t *testing.T) {
	req := require.New(t)
	fixture := newSocialFixture(t)

	// One accepted friendship in each direction, one still pending
	fixture.friendships.EXPECT().ListForUser("me").Return([]domain.Friendship{
		{RequesterID: "me", AddresseeID: "bob", Status: domain.FriendshipAccepted},
		{RequesterID: "clara", AddresseeID: "me", Status: domain.FriendshipAccepted},
		{RequesterID: "dave", AddresseeID: "me", Status: domain.FriendshipPending},
	}, nil)
	fixture.users.EXPECT().GetUserByID("bob").Return(storedUser("bob", "bob"), nil)
	fixture.users.EXPECT().GetUserByID("clara").Return(storedUser("clara", "clara"), nil)

	friends, err := fixture.svc.ListFriends("me")

	req.NoError(err)
	req.Len(friends, 2)
	req.Equal("bob", friends[0].ID)
	req.Equal("clara", friends[1].ID)
}

func TestSocialService_PendingRequests_Only_Incoming(t *testing.T) {
	req := require.New(t)
	fixture := newSocialFixture(t)
	at := time.Now().UTC()

	fixture.friendships.EXPECT().ListForUser("me").Return([]domain.Friendship{
		{RequesterID: "dave", AddresseeID: "me", Status: domain.FriendshipPending, CreatedAt: at},
		{RequesterID: "me", AddresseeID: "erin", Status: domain.FriendshipPending, CreatedAt: at},
		{RequesterID: "bob", AddresseeID: "me", Status: domain.FriendshipAccepted, CreatedAt: at},
	}, nil)
	fixture.users.EXPECT().GetUserByID("dave").Return(storedUser("dave", "dave"), nil)

	requests, err := fixture.svc.PendingRequests("me")

	req.NoError(err)
	req.Len(requests, 1)
	req.Equal("dave", requests[0].From.ID)
}

func TestSocialService_SendFriendRequest_Checks_Addressee(t *testing.T) {
	req := require.New(t)
	fixture := newSocialFixture(t)

	fixture.users.EXPECT().GetUserByID("ghost").
		Return(repositories.User{}, errors.ErrUserNotFound)
	fixture.friendships.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Times(0)

	_, err := fixture.svc.SendFriendRequest("me", "ghost")

	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestSocialService_GroupDetails_Is_Member_Gated(t *testing.T) {
	req := require.New(t)
	fixture := newSocialFixture(t)

	fixture.groups.EXPECT().IsMember("g1", "outsider").Return(false, nil)

	_, err := fixture.svc.GroupDetails("outsider", "g1")

	req.ErrorIs(err, errors.ErrNotGroupMember)
}

func TestSocialService_GroupDetails_Hydrates_Members(t *testing.T) {
	req := require.New(t)
	fixture := newSocialFixture(t)
	at := time.Now().UTC()

	fixture.groups.EXPECT().IsMember("g1", "me").Return(true, nil)
	fixture.groups.EXPECT().GetGroup("g1").
		Return(domain.Group{ID: "g1", Name: "team"}, nil)
	fixture.groups.EXPECT().Members("g1").Return([]repositories.MemberRow{
		{UserID: "me", Role: domain.RoleAdmin, JoinedAt: at},
		{UserID: "bob", Role: domain.RoleMember, JoinedAt: at},
	}, nil)
	fixture.users.EXPECT().GetUserByID("me").Return(storedUser("me", "me"), nil)
	fixture.users.EXPECT().GetUserByID("bob").Return(storedUser("bob", "bob"), nil)

	details, err := fixture.svc.GroupDetails("me", "g1")

	req.NoError(err)
	req.Equal("team", details.Group.Name)
	req.Len(details.Members, 2)
	req.Equal(domain.RoleAdmin, details.Members[0].Role)
	req.Equal("bob", details.Members[1].User.Username)
}

func TestSocialService_AddGroupMember_Requires_Acting_Member(t *testing.T) {
	req := require.New(t)
	fixture := newSocialFixture(t)

	fixture.groups.EXPECT().IsMember("g1", "outsider").Return(false, nil)
	fixture.groups.EXPECT().AddMember(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := fixture.svc.AddGroupMember("outsider", "g1", "bob")

	req.ErrorIs(err, errors.ErrNotGroupMember)
}
