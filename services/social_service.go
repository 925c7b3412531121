package services

import (
	"time"

	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"

	"github.com/samber/lo"
)

const searchLimit = 20

type ISocialService interface {
	GetProfile(userID string) (Profile, error)
	UpdateProfile(userID, firstName, lastName, bio string) (Profile, error)
	SearchUsers(query, excludeID string) ([]domain.UserInfo, error)

	SendFriendRequest(requesterID, addresseeID string) (domain.Friendship, error)
	RespondFriendRequest(userID, requesterID string, accept bool) (domain.Friendship, error)
	ListFriends(userID string) ([]domain.UserInfo, error)
	PendingRequests(userID string) ([]FriendRequest, error)

	CreateGroup(creatorID, name, description string) (domain.Group, error)
	GroupDetails(userID, groupID string) (GroupDetails, error)
	AddGroupMember(actorID, groupID, userID string) error
	LeaveGroup(userID, groupID string) error
	GroupsForUser(userID string) ([]domain.Group, error)
}

// Profile is the account view exposed over the API, stripped of
// credentials.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

// FriendRequest is an incoming PENDING request, hydrated with the
// requester's display fields.
type FriendRequest struct {
	From      domain.UserInfo `json:"from"`
	CreatedAt time.Time       `json:"createdAt"`
}

type GroupDetails struct {
	Group   domain.Group      `json:"group"`
	Members []GroupMemberInfo `json:"members"`
}

type GroupMemberInfo struct {
	User     domain.UserInfo  `json:"user"`
	Role     domain.GroupRole `json:"role"`
	JoinedAt time.Time        `json:"joinedAt"`
}

type SocialService struct {
	users       repositories.IUserRepository
	friendships repositories.IFriendshipRepository
	groups      repositories.IGroupRepository
}

func NewSocialService(users repositories.IUserRepository,
	friendships repositories.IFriendshipRepository,
	groups repositories.IGroupRepository) ISocialService {
	return &SocialService{
		users:       users,
		friendships: friendships,
		groups:      groups,
	}
}

func toProfile(user repositories.User) Profile {
	return Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
}

func (s *SocialService) GetProfile(userID string) (Profile, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

func (s *SocialService) UpdateProfile(userID, firstName, lastName, bio string) (Profile, error) {
	user, err := s.users.UpdateProfile(userID, firstName, lastName, bio)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

func (s *SocialService) SearchUsers(query, excludeID string) ([]domain.UserInfo, error) {
	users, err := s.users.SearchUsers(query, excludeID, searchLimit)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(user repositories.User, _ int) domain.UserInfo {
		return user.Info()
	}), nil
}

// SendFriendRequest opens a PENDING friendship toward an existing account.
func (s *SocialService) SendFriendRequest(requesterID, addresseeID string) (domain.Friendship, error) {
	if _, err := s.users.GetUserByID(addresseeID); err != nil {
		return domain.Friendship{}, err
	}
	return s.friendships.CreateRequest(requesterID, addresseeID)
}

func (s *SocialService) RespondFriendRequest(userID, requesterID string, accept bool) (domain.Friendship, error) {
	return s.friendships.Respond(userID, requesterID, accept)
}

// ListFriends returns the display fields of every ACCEPTED friend.
func (s *SocialService) ListFriends(userID string) ([]domain.UserInfo, error) {
	friendships, err := s.friendships.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	friends := make([]domain.UserInfo, 0, len(friendships))
	for _, friendship := range friendships {
		if friendship.Status != domain.FriendshipAccepted {
			continue
		}
		otherID := friendship.RequesterID
		if otherID == userID {
			otherID = friendship.AddresseeID
		}
		other, err := s.users.GetUserByID(otherID)
		if err != nil {
			continue // Orphaned friendship row, skip rather than fail the list
		}
		friends = append(friends, other.Info())
	}
	return friends, nil
}

// PendingRequests returns requests awaiting this user's answer, not the
// ones they sent.
func (s *SocialService) PendingRequests(userID string) ([]FriendRequest, error) {
	friendships, err := s.friendships.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	var requests []FriendRequest
	for _, friendship := range friendships {
		if friendship.Status != domain.FriendshipPending || friendship.AddresseeID != userID {
			continue
		}
		requester, err := s.users.GetUserByID(friendship.RequesterID)
		if err != nil {
			continue
		}
		requests = append(requests, FriendRequest{
			From:      requester.Info(),
			CreatedAt: friendship.CreatedAt,
		})
	}
	return requests, nil
}

// CreateGroup creates the group with the creator as its ADMIN member.
func (s *SocialService) CreateGroup(creatorID, name, description string) (domain.Group, error) {
	if _, err := s.users.GetUserByID(creatorID); err != nil {
		return domain.Group{}, err
	}
	return s.groups.CreateGroup(name, description, creatorID)
}

// GroupDetails is member-gated: only members may inspect the roster.
func (s *SocialService) GroupDetails(userID, groupID string) (GroupDetails, error) {
	member, err := s.groups.IsMember(groupID, userID)
	if err != nil {
		return GroupDetails{}, err
	}
	if !member {
		return GroupDetails{}, errors.ErrNotGroupMember
	}

	group, err := s.groups.GetGroup(groupID)
	if err != nil {
		return GroupDetails{}, err
	}

	rows, err := s.groups.Members(groupID)
	if err != nil {
		return GroupDetails{}, err
	}

	details := GroupDetails{Group: group}
	for _, row := range rows {
		user, err := s.users.GetUserByID(row.UserID)
		if err != nil {
			continue
		}
		details.Members = append(details.Members, GroupMemberInfo{
			User:     user.Info(),
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return details, nil
}

// AddGroupMember lets an existing member bring another account in.
func (s *SocialService) AddGroupMember(actorID, groupID, userID string) error {
	actorIsMember, err := s.groups.IsMember(groupID, actorID)
	if err != nil {
		return err
	}
	if !actorIsMember {
		return errors.ErrNotGroupMember
	}
	if _, err := s.users.GetUserByID(userID); err != nil {
		return err
	}
	return s.groups.AddMember(groupID, userID, domain.RoleMember)
}

func (s *SocialService) LeaveGroup(userID, groupID string) error {
	member, err := s.groups.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return errors.ErrNotGroupMember
	}
	return s.groups.RemoveMember(groupID, userID)
}

func (s *SocialService) GroupsForUser(userID string) ([]domain.Group, error) {
	return s.groups.GroupsForUser(userID)
}
