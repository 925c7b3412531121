package hub

import (
	"context"

	"chat-hub/domain/event"
)

// Sink is a buffered channel the router pushes events into. The websocket
// writer on the other side drains it into the live connection.
type Sink struct {
	Events chan event.Event
}

func NewSink(bufferSize int) *Sink {
	return &Sink{Events: make(chan event.Event, bufferSize)}
}

// Consume is called by the delivery router during fan-out. It never blocks:
// when the buffer is full the event is dropped, because a slow consumer
// must not stall persistence or other recipients' pushes.
func (s *Sink) Consume(ctx context.Context, e event.Event) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
