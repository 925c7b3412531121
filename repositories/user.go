//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
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

type IUserRepository interface {
	CreateUser(user NewUser) (User, error)
	GetUserByEmail(email string) (User, error)
	GetUserByID(id string) (User, error)
	UpdateProfile(id, firstName, lastName, bio string) (User, error)
	SearchUsers(query, excludeID string, limit int) ([]User, error)
}

// User is the repository-level representation of an account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Bio          string    `json:"bio,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Info projects the public display fields embedded in broadcast messages.
func (u User) Info() domain.UserInfo {
	return domain.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type NewUser struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// Key layout:
//
//	user:id:{uuid}       -> JSON User (canonical row)
//	user:email:{email}   -> user id (uniqueness + login lookup)
//	user:name:{username} -> user id (uniqueness)
func userKey(id string) []byte      { return []byte("user:id:" + id) }
func emailKey(email string) []byte  { return []byte("user:email:" + strings.ToLower(email)) }
func nameKey(username string) []byte { return []byte("user:name:" + strings.ToLower(username)) }

// CreateUser persists a new account. The email and username indexes are
// written in the same transaction as the row, so uniqueness holds even
// under concurrent registrations.
func (u UserRepository) CreateUser(user NewUser) (User, error) {
	row := User{
		ID:           uuid.NewString(),
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: user.PasswordHash,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(row)
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(row.Email)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if _, err := txn.Get(nameKey(row.Username)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(userKey(row.ID), data); err != nil {
			return err
		}
		if err := txn.Set(emailKey(row.Email), []byte(row.ID)); err != nil {
			return err
		}
		return txn.Set(nameKey(row.Username), []byte(row.ID))
	})
	if err != nil {
		return User{}, err
	}
	return row, nil
}

func (u UserRepository) GetUserByEmail(email string) (User, error) {
	var id string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u.GetUserByID(id)
}

func (u UserRepository) GetUserByID(id string) (User, error) {
	var row User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return row, nil
}

// UpdateProfile replaces the mutable display fields of an account.
// Identity fields (id, username, email, password) are untouched.
func (u UserRepository) UpdateProfile(id, firstName, lastName, bio string) (User, error) {
	row, err := u.GetUserByID(id)
	if err != nil {
		return User{}, err
	}
	row.FirstName = firstName
	row.LastName = lastName
	row.Bio = bio

	data, err := json.Marshal(row)
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(id), data)
	})
	return row, err
}

// SearchUsers matches the query case-insensitively against username and
// display names, excluding the caller. A full prefix scan over user rows
// is acceptable at this store's scale; there is no inverted index.
func (u UserRepository) SearchUsers(query, excludeID string, limit int) ([]User, error) {
	needle := strings.ToLower(query)
	var out []User

	err := u.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		prefix := []byte("user:id:")
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if len(out) == limit {
				break
			}
			var row User
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			})
			if err != nil {
				return err
			}
			if row.ID == excludeID {
				continue
			}
			haystack := strings.ToLower(row.Username + " " + row.FirstName + " " + row.LastName)
			if strings.Contains(haystack, needle) {
				out = append(out, row)
			}
		}
		return nil
	})
	return out, err
}
