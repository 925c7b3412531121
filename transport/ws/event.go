package ws

import (
	"encoding/json"

	"chat-hub/domain/event"
)

// Envelope is the wire frame in both directions: an action name plus an
// action-specific JSON payload.
type Envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client-to-server actions.
const (
	ActionJoin       = "join"
	ActionSendDirect = "send_direct_message"
	ActionSendGroup  = "send_group_message"
	ActionJoinGroup  = "join_group"
	ActionLeaveGroup = "leave_group"
)

// JoinPayload authenticates the connection. The token is the same JWT the
// REST API issues at login.
type JoinPayload struct {
	Token string `json:"token"`
}

type DirectMessagePayload struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

type GroupMessagePayload struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

type GroupPayload struct {
	GroupID string `json:"groupId"`
}

// Encode wraps a hub event into its outbound frame.
func Encode(e event.Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Action: e.Action(), Payload: payload})
}
