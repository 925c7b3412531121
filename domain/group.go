package domain

import "time"

type GroupRole string

const (
	RoleAdmin  GroupRole = "ADMIN"
	RoleMember GroupRole = "MEMBER"
)

// Group is a named conversation owned by the persistence layer.
// The live routing core only ever consumes its ID as an opaque key.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GroupMember struct {
	UserID   string    `json:"userId"`
	Role     GroupRole `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
	User     UserInfo  `json:"user"`
}
