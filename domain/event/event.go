// Package event defines the server-to-client events pushed over live
// connections. Events are immutable snapshots of already persisted state.
package event

import "chat-hub/domain"

// Outbound action names, kept identical to the wire protocol.
const (
	ActionNewDirectMessage = "new_direct_message"
	ActionNewGroupMessage  = "new_group_message"
	ActionMessageSent      = "message_sent"
	ActionError            = "error"
)

// Event is anything the hub can push to a live connection.
type Event interface {
	Action() string
}

// NewDirectMessage notifies the recipient of a freshly persisted 1:1 message.
type NewDirectMessage struct {
	Message domain.Message `json:"message"`
}

func (NewDirectMessage) Action() string { return ActionNewDirectMessage }

// NewGroupMessage notifies an online group member of a persisted group
// message. GroupID tags the event so clients can scope it without
// inspecting the message.
type NewGroupMessage struct {
	Message domain.Message `json:"message"`
	GroupID string         `json:"groupId"`
}

func (NewGroupMessage) Action() string { return ActionNewGroupMessage }

// MessageSent confirms a direct send back to its author. The embedded
// message is the persisted copy, byte-for-byte what the recipient saw.
type MessageSent struct {
	Message domain.Message `json:"message"`
}

func (MessageSent) Action() string { return ActionMessageSent }

// Error reports a failed client operation on the originating connection.
type Error struct {
	Message string `json:"message"`
}

func (Error) Action() string { return ActionError }
