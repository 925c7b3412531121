package ws

import (
	"context"
	"log/slog"
	"net/http"

	"chat-hub/contract"
	"chat-hub/hub"

	"github.com/gorilla/websocket"
)

// upgrader establishes websocket connections. Safe for concurrent use.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server upgrades HTTP requests into live hub sessions. Authentication
// happens after the upgrade, on the first join frame, so the HTTP layer
// accepts everyone and the session protocol decides who gets to act.
type Server struct {
	log        *slog.Logger
	registry   contract.IRegistry
	subs       contract.ISubscriptions
	router     *hub.Router
	sinkBuffer int
}

func NewServer(log *slog.Logger, registry contract.IRegistry,
	subs contract.ISubscriptions, router *hub.Router, sinkBuffer int) *Server {
	return &Server{
		log:        log,
		registry:   registry,
		subs:       subs,
		router:     router,
		sinkBuffer: sinkBuffer,
	}
}

// Handle is the websocket endpoint. One sink, one session and two pump
// goroutines per connection.
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sink := hub.NewSink(s.sinkBuffer)
	session := hub.NewSession(s.log, s.registry, s.subs, s.router, sink)
	client := newClient(s.log, conn, session, sink)

	s.log.Debug("Connection accepted", "conn_id", session.ID(), "remote", r.RemoteAddr)

	// The request context dies with this handler, the pumps must not
	ctx, cancel := context.WithCancel(context.Background())
	go client.writePump(ctx)
	go client.readPump(ctx, cancel)
}
