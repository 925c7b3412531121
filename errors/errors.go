package errors

import "fmt"

var (
	// Live-connection taxonomy. Every failed client operation maps to one of
	// these and is reported back as an "error" event; none of them is fatal.
	ErrUnauthenticated = fmt.Errorf("connection is not bound to a user")
	ErrEmptyContent    = fmt.Errorf("message content is required")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrGroupNotFound   = fmt.Errorf("group not found")
	ErrPersistence     = fmt.Errorf("persistence failure")

	// Social rules enforced by the persistence gateway.
	ErrNotFriends       = fmt.Errorf("can only message friends")
	ErrNotGroupMember   = fmt.Errorf("not a member of this group")
	ErrFriendshipExists = fmt.Errorf("friendship already exists")
	ErrSelfFriendship   = fmt.Errorf("cannot send friend request to yourself")

	// Account lifecycle.
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)
