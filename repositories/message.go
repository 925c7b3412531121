//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"chat-hub/domain"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetDirectMessages(userA, userB string, cursor *string) ([]domain.Message, *string, error)
	GetGroupMessages(groupID string, cursor *string) ([]domain.Message, *string, error)
	DirectConversations(userID string) ([]ConversationEntry, error)
}

// ConversationEntry is the latest direct message exchanged with one
// partner, used by the conversation listing.
type ConversationEntry struct {
	PartnerID   string         `json:"partnerId"`
	LastMessage domain.Message `json:"lastMessage"`
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// Keys are formatted as "{prefix}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector if
//     two messages arrive at the same nanosecond.
//
// Direct conversations share one key space per unordered user pair:
//
//	dm:{low}:{high}:{ts19}:{uuid}  -> JSON Message
//	gm:{groupID}:{ts19}:{uuid}     -> JSON Message
//	convo:{user}:{partner}         -> JSON Message (latest, both directions)
func directPrefix(userA, userB string) string {
	low, high := orderPair(userA, userB)
	return fmt.Sprintf("dm:%s:%s:", low, high)
}

func groupPrefix(groupID string) string {
	return fmt.Sprintf("gm:%s:", groupID)
}

func convoKey(userID, partnerID string) []byte {
	return []byte("convo:" + userID + ":" + partnerID)
}

func messageKey(message domain.Message) string {
	var prefix string
	if message.IsDirect() {
		prefix = directPrefix(message.AuthorID, *message.RecipientID)
	} else {
		prefix = groupPrefix(*message.GroupID)
	}
	return fmt.Sprintf("%s%019d:%s", prefix, message.CreatedAt.UnixNano(), message.ID)
}

// StoreMessage persists a message in BadgerDB. Direct messages also
// refresh the conversation index on both sides in the same transaction,
// so the listing never disagrees with the history.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(messageKey(message)), bytes); err != nil {
			return err
		}
		if !message.IsDirect() {
			return nil
		}
		if err := txn.Set(convoKey(message.AuthorID, *message.RecipientID), bytes); err != nil {
			return err
		}
		return txn.Set(convoKey(*message.RecipientID, message.AuthorID), bytes)
	})
}

func (m MessageRepository) GetDirectMessages(userA, userB string, cursor *string) ([]domain.Message, *string, error) {
	return m.scan(directPrefix(userA, userB), cursor)
}

func (m MessageRepository) GetGroupMessages(groupID string, cursor *string) ([]domain.Message, *string, error) {
	return m.scan(groupPrefix(groupID), cursor)
}

// scan retrieves messages for one conversation using a reverse prefix
// scan. Thanks to the padded timestamp in the key, messages come back
// newest first; the returned cursor is the key suffix of the oldest
// message in the page and resumes the scan on the next call.
func (m MessageRepository) scan(prefixStr string, cursor *string) ([]domain.Message, *string, error) {
	var byteMessages [][]byte
	var lastKey string

	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize the cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				byteMessages = append(byteMessages, value)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var messages []domain.Message
	for _, b := range byteMessages {
		var message domain.Message
		if err = json.Unmarshal(b, &message); err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

// DirectConversations lists the latest direct message per partner.
func (m MessageRepository) DirectConversations(userID string) ([]ConversationEntry, error) {
	var out []ConversationEntry
	prefix := []byte("convo:" + userID + ":")

	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			partnerID := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			var message domain.Message
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			})
			if err != nil {
				return err
			}
			out = append(out, ConversationEntry{PartnerID: partnerID, LastMessage: message})
		}
		return nil
	})
	return out, err
}
