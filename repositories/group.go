//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IGroupRepository interface {
	CreateGroup(name, description, creatorID string) (domain.Group, error)
	GetGroup(id string) (domain.Group, error)
	AddMember(groupID, userID string, role domain.GroupRole) error
	RemoveMember(groupID, userID string) error
	IsMember(groupID, userID string) (bool, error)
	MemberIDs(groupID string) ([]string, error)
	Members(groupID string) ([]MemberRow, error)
	GroupsForUser(userID string) ([]domain.Group, error)
}

// MemberRow is the persisted membership record; display hydration happens
// in the service layer.
type MemberRow struct {
	UserID   string           `json:"userId"`
	Role     domain.GroupRole `json:"role"`
	JoinedAt time.Time        `json:"joinedAt"`
}

type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) IGroupRepository {
	return &GroupRepository{db: db}
}

// Key layout:
//
//	group:{id}                 -> JSON Group
//	member:{groupID}:{userID}  -> JSON MemberRow
//	usergroup:{userID}:{groupID} -> empty (reverse index for listing)
func groupKey(id string) []byte { return []byte("group:" + id) }

func memberKey(groupID, userID string) []byte {
	return []byte("member:" + groupID + ":" + userID)
}

func userGroupKey(userID, groupID string) []byte {
	return []byte("usergroup:" + userID + ":" + groupID)
}

// CreateGroup persists the group and its first ADMIN membership (the
// creator) in one transaction.
func (g GroupRepository) CreateGroup(name, description, creatorID string) (domain.Group, error) {
	row := domain.Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(row)
	if err != nil {
		return domain.Group{}, fmt.Errorf("marshal failed: %w", err)
	}
	member, err := json.Marshal(MemberRow{
		UserID:   creatorID,
		Role:     domain.RoleAdmin,
		JoinedAt: row.CreatedAt,
	})
	if err != nil {
		return domain.Group{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = g.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(groupKey(row.ID), data); err != nil {
			return err
		}
		if err := txn.Set(memberKey(row.ID, creatorID), member); err != nil {
			return err
		}
		return txn.Set(userGroupKey(creatorID, row.ID), nil)
	})
	if err != nil {
		return domain.Group{}, err
	}
	return row, nil
}

func (g GroupRepository) GetGroup(id string) (domain.Group, error) {
	var row domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Group{}, errors.ErrGroupNotFound
	}
	if err != nil {
		return domain.Group{}, err
	}
	return row, nil
}

// AddMember is idempotent: adding an existing member rewrites the same row.
func (g GroupRepository) AddMember(groupID, userID string, role domain.GroupRole) error {
	member, err := json.Marshal(MemberRow{
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return g.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(groupKey(groupID)); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrGroupNotFound
			}
			return err
		}
		if err := txn.Set(memberKey(groupID, userID), member); err != nil {
			return err
		}
		return txn.Set(userGroupKey(userID, groupID), nil)
	})
}

func (g GroupRepository) RemoveMember(groupID, userID string) error {
	return g.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(memberKey(groupID, userID)); err != nil {
			return err
		}
		return txn.Delete(userGroupKey(userID, groupID))
	})
}

func (g GroupRepository) IsMember(groupID, userID string) (bool, error) {
	err := g.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(groupID, userID))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemberIDs returns every current member id. Badger iterates keys in
// lexicographic order, so the result is deterministic across calls.
func (g GroupRepository) MemberIDs(groupID string) ([]string, error) {
	rows, err := g.Members(groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids, nil
}

func (g GroupRepository) Members(groupID string) ([]MemberRow, error) {
	var out []MemberRow
	prefix := []byte("member:" + groupID + ":")

	err := g.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(groupKey(groupID)); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrGroupNotFound
			}
			return err
		}
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var row MemberRow
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			})
			if err != nil {
				return err
			}
			out = append(out, row)
		}
		return nil
	})
	return out, err
}

func (g GroupRepository) GroupsForUser(userID string) ([]domain.Group, error) {
	var groupIDs []string
	prefix := []byte("usergroup:" + userID + ":")

	err := g.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			groupIDs = append(groupIDs, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []domain.Group
	for _, id := range groupIDs {
		group, err := g.GetGroup(id)
		if stderrors.Is(err, errors.ErrGroupNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, group)
	}
	return out, nil
}
