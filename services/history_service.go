package services

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/repositories"
)

type IHistoryService interface {
	DirectHistory(userID, partnerID string, cursor *string) ([]domain.Message, *string, error)
	GroupHistory(userID, groupID string, cursor *string) ([]domain.Message, *string, error)
	Conversations(userID string) (Conversations, error)
}

// Conversations is the sidebar view: every group the user belongs to plus
// every direct exchange, the latter carrying its latest message so the
// client can render a preview without a second round trip.
type Conversations struct {
	Groups []domain.Group       `json:"groups"`
	Direct []DirectConversation `json:"direct"`
}

type DirectConversation struct {
	Partner     domain.UserInfo `json:"partner"`
	LastMessage domain.Message  `json:"lastMessage"`
}

type HistoryService struct {
	users    repositories.IUserRepository
	groups   repositories.IGroupRepository
	messages repositories.IMessageRepository
}

func NewHistoryService(users repositories.IUserRepository,
	groups repositories.IGroupRepository,
	messages repositories.IMessageRepository) IHistoryService {
	return &HistoryService{
		users:    users,
		groups:   groups,
		messages: messages,
	}
}

// DirectHistory pages through a 1:1 exchange newest first. The caller is
// one side of the pair by construction, so no extra gating applies.
func (s *HistoryService) DirectHistory(userID, partnerID string, cursor *string) ([]domain.Message, *string, error) {
	if _, err := s.users.GetUserByID(partnerID); err != nil {
		return nil, nil, err
	}
	return s.messages.GetDirectMessages(userID, partnerID, cursor)
}

// GroupHistory is member-gated: non-members get nothing, not even an
// empty page.
func (s *HistoryService) GroupHistory(userID, groupID string, cursor *string) ([]domain.Message, *string, error) {
	member, err := s.groups.IsMember(groupID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !member {
		return nil, nil, errors.ErrNotGroupMember
	}
	return s.messages.GetGroupMessages(groupID, cursor)
}

func (s *HistoryService) Conversations(userID string) (Conversations, error) {
	groups, err := s.groups.GroupsForUser(userID)
	if err != nil {
		return Conversations{}, err
	}

	entries, err := s.messages.DirectConversations(userID)
	if err != nil {
		return Conversations{}, err
	}

	out := Conversations{Groups: groups}
	for _, entry := range entries {
		partner, err := s.users.GetUserByID(entry.PartnerID)
		if err != nil {
			continue // Partner account gone, drop the stale entry from the view
		}
		out.Direct = append(out.Direct, DirectConversation{
			Partner:     partner.Info(),
			LastMessage: entry.LastMessage,
		})
	}
	return out, nil
}
