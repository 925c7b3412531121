package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"chat-hub/auth"
	"chat-hub/domain/event"
	"chat-hub/hub"

	"github.com/gorilla/websocket"
)

// Connection parameters.
const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum frame size allowed from the peer.
	maxMessageSize = 4096
)

// Client pairs one websocket connection with its hub session. Reads and
// writes each run on their own goroutine because the connection allows a
// single concurrent reader and a single concurrent writer; everything the
// server wants to push, error reports included, goes through the sink so
// the write pump stays the only writer.
type Client struct {
	log     *slog.Logger
	conn    *websocket.Conn
	session *hub.Session
	sink    *hub.Sink
}

func newClient(log *slog.Logger, conn *websocket.Conn,
	session *hub.Session, sink *hub.Sink) *Client {
	return &Client{
		log:     log.With("conn_id", session.ID()),
		conn:    conn,
		session: session,
		sink:    sink,
	}
}

// readPump reads and dispatches frames sequentially. It owns the
// connection teardown: whatever ends the loop, the session is closed and
// the write pump released through cancel.
func (c *Client) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer func() {
		cancel()
		c.session.Close()
		c.conn.Close()
		c.log.Debug("Connection closed", "user_id", c.session.UserID())
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var envelope Envelope
		if err := c.conn.ReadJSON(&envelope); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected close", "error", err)
			}
			return
		}

		if err := c.dispatch(ctx, envelope); err != nil {
			// Protocol errors are reported on the connection, never fatal
			_ = c.sink.Consume(ctx, event.Error{Message: err.Error()})
		}
	}
}

// dispatch routes one inbound frame into the session.
func (c *Client) dispatch(ctx context.Context, envelope Envelope) error {
	switch envelope.Action {
	case ActionJoin:
		var payload JoinPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return fmt.Errorf("malformed join payload: %w", err)
		}
		claims, err := auth.ValidateToken(payload.Token)
		if err != nil {
			return fmt.Errorf("invalid or expired token")
		}
		return c.session.Bind(claims.UserID)

	case ActionSendDirect:
		var payload DirectMessagePayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return fmt.Errorf("malformed message payload: %w", err)
		}
		return c.session.SendDirect(ctx, payload.RecipientID, payload.Content)

	case ActionSendGroup:
		var payload GroupMessagePayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return fmt.Errorf("malformed message payload: %w", err)
		}
		return c.session.SendGroup(ctx, payload.GroupID, payload.Content)

	case ActionJoinGroup:
		var payload GroupPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return fmt.Errorf("malformed group payload: %w", err)
		}
		return c.session.JoinGroup(payload.GroupID)

	case ActionLeaveGroup:
		var payload GroupPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return fmt.Errorf("malformed group payload: %w", err)
		}
		return c.session.LeaveGroup(payload.GroupID)

	default:
		return fmt.Errorf("unknown action %q", envelope.Action)
	}
}

// writePump drains the sink into the connection and keeps the heartbeat
// going.
func (c *Client) writePump(ctx context.Context) {
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		pingTicker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case e := <-c.sink.Events:
			raw, err := Encode(e)
			if err != nil {
				c.log.Error("Event encoding failed", "action", e.Action(), "error", err)
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-pingTicker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
