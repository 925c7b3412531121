// Package domain contains core concepts of the chat system.
// This file defines user identities and friendship relations.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// UserInfo carries the public display fields of an account.
// It is embedded in every broadcast message so clients never need a
// second lookup to render the author.
type UserInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
)

// Friendship links two users. A single row exists per unordered pair;
// RequesterID records which side initiated the request.
type Friendship struct {
	RequesterID string           `json:"requesterId"`
	AddresseeID string           `json:"addresseeId"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
}
