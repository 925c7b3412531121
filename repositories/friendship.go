//go:generate go run go.uber.org/mock/mockgen -source=friendship.go -destination=../mocks/mock_friendship_repository.go -package=mocks
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
)

type IFriendshipRepository interface {
	CreateRequest(requesterID, addresseeID string) (domain.Friendship, error)
	Respond(userID, requesterID string, accept bool) (domain.Friendship, error)
	AreFriends(a, b string) (bool, error)
	ListForUser(userID string) ([]domain.Friendship, error)
}

type FriendshipRepository struct {
	db *badger.DB
}

func NewFriendshipRepository(db *badger.DB) IFriendshipRepository {
	return &FriendshipRepository{db: db}
}

// One canonical row exists per unordered pair, keyed by the sorted ids.
// Two index keys (one per side) make per-user listing a prefix scan
// instead of a full table walk.
//
//	friend:{low}:{high}     -> JSON Friendship
//	friendidx:{user}:{other} -> empty
func friendKey(a, b string) []byte {
	low, high := orderPair(a, b)
	return []byte("friend:" + low + ":" + high)
}

func friendIdxKey(user, other string) []byte {
	return []byte("friendidx:" + user + ":" + other)
}

func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// CreateRequest records a PENDING friendship. A second request for the
// same pair, in either direction, is rejected.
func (f FriendshipRepository) CreateRequest(requesterID, addresseeID string) (domain.Friendship, error) {
	if requesterID == addresseeID {
		return domain.Friendship{}, errors.ErrSelfFriendship
	}

	row := domain.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      domain.FriendshipPending,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(row)
	if err != nil {
		return domain.Friendship{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = f.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(friendKey(requesterID, addresseeID)); err == nil {
			return errors.ErrFriendshipExists
		}
		if err := txn.Set(friendKey(requesterID, addresseeID), data); err != nil {
			return err
		}
		if err := txn.Set(friendIdxKey(requesterID, addresseeID), nil); err != nil {
			return err
		}
		return txn.Set(friendIdxKey(addresseeID, requesterID), nil)
	})
	if err != nil {
		return domain.Friendship{}, err
	}
	return row, nil
}

// Respond accepts or declines a pending request addressed to userID.
// Declining deletes the row entirely so a new request can follow later.
func (f FriendshipRepository) Respond(userID, requesterID string, accept bool) (domain.Friendship, error) {
	var row domain.Friendship
	err := f.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(friendKey(userID, requesterID))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		}); err != nil {
			return err
		}
		// Only the addressee of a pending request may respond to it.
		if row.AddresseeID != userID || row.Status != domain.FriendshipPending {
			return errors.ErrUserNotFound
		}

		if !accept {
			if err := txn.Delete(friendKey(userID, requesterID)); err != nil {
				return err
			}
			if err := txn.Delete(friendIdxKey(userID, requesterID)); err != nil {
				return err
			}
			return txn.Delete(friendIdxKey(requesterID, userID))
		}

		row.Status = domain.FriendshipAccepted
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		return txn.Set(friendKey(userID, requesterID), data)
	})
	if err != nil {
		return domain.Friendship{}, err
	}
	return row, nil
}

func (f FriendshipRepository) AreFriends(a, b string) (bool, error) {
	var row domain.Friendship
	err := f.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(friendKey(a, b))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return row.Status == domain.FriendshipAccepted, nil
}

// ListForUser returns every friendship involving userID, pending requests
// included, via the per-user index.
func (f FriendshipRepository) ListForUser(userID string) ([]domain.Friendship, error) {
	var others []string
	prefix := []byte("friendidx:" + userID + ":")

	err := f.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			others = append(others, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []domain.Friendship
	err = f.db.View(func(txn *badger.Txn) error {
		for _, other := range others {
			item, err := txn.Get(friendKey(userID, other))
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var row domain.Friendship
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			}); err != nil {
				return err
			}
			out = append(out, row)
		}
		return nil
	})
	return out, err
}
