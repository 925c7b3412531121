// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event.
// Exactly one of RecipientID and GroupID is set: RecipientID for a direct
// message, GroupID for a group message. Never both, never neither.
type Message struct {
	ID          uuid.UUID `json:"id"`
	Content     string    `json:"content"`
	AuthorID    string    `json:"authorId"`
	Author      UserInfo  `json:"author"`
	RecipientID *string   `json:"recipientId,omitempty"`
	GroupID     *string   `json:"groupId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsDirect reports whether the message belongs to a 1:1 conversation.
func (m Message) IsDirect() bool {
	return m.RecipientID != nil
}
