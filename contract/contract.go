//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-hub/domain"
	"chat-hub/domain/event"
)

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the write side of one live connection. Consume must never
// block the caller: a slow consumer drops events instead of stalling the
// delivery path.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// Connection pairs a transport handle with its event sink.
// One Connection exists per device/tab; there is no multiplexing.
type Connection struct {
	ID   string
	Sink EventSink
}

// IRegistry maps user identities to their currently active connection.
// The mapping is 1:1 and replaceable: binding a new connection for an
// already bound user overwrites the previous mapping.
type IRegistry interface {
	Bind(userID string, conn Connection)
	Lookup(userID string) (Connection, bool)
	UserOf(connID string) (string, bool)
	Unbind(connID string)
	Online() int
}

// ISubscriptions records which groups a connection has joined for live
// delivery. All operations are total: absence is a valid result, never
// an error.
type ISubscriptions interface {
	Join(connID, groupID string)
	Leave(connID, groupID string)
	Purge(connID string)
	ConnsForGroup(groupID string) []string
}

// Gateway is the contract to the durable store consumed by the delivery
// router. Both create calls return the fully hydrated message that must be
// broadcast verbatim.
type Gateway interface {
	CreateDirectMessage(ctx context.Context, authorID, recipientID, content string) (domain.Message, error)
	CreateGroupMessage(ctx context.Context, authorID, groupID, content string) (domain.Message, error)
	ResolveGroupMemberIDs(ctx context.Context, groupID string) ([]string, error)
}
