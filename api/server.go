// Package api exposes the account, social graph and history operations
// over REST. Live messaging does not pass through here, it lives on the
// websocket endpoint; the API issues the tokens the websocket handshake
// consumes.
package api

import (
	"log/slog"
	"net/http"

	"chat-hub/services"

	"github.com/gin-gonic/gin"
)

type Server struct {
	log     *slog.Logger
	auth    services.IAuthService
	social  services.ISocialService
	history services.IHistoryService
	ws      http.HandlerFunc
}

func NewServer(log *slog.Logger, auth services.IAuthService,
	social services.ISocialService, history services.IHistoryService,
	ws http.HandlerFunc) *Server {
	return &Server{
		log:     log,
		auth:    auth,
		social:  social,
		history: history,
		ws:      ws,
	}
}

func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	public := engine.Group("/api")
	public.POST("/auth/register", s.handleRegister)
	public.POST("/auth/login", s.handleLogin)

	if s.ws != nil {
		engine.GET("/ws", gin.WrapF(s.ws))
	}

	private := engine.Group("/api", s.requireAuth())
	private.GET("/profile", s.handleGetProfile)
	private.PUT("/profile", s.handleUpdateProfile)
	private.GET("/users/search", s.handleSearchUsers)

	private.GET("/friends", s.handleListFriends)
	private.GET("/friends/requests", s.handlePendingRequests)
	private.POST("/friends/requests", s.handleSendFriendRequest)
	private.POST("/friends/requests/:requesterId/respond", s.handleRespondFriendRequest)

	private.POST("/groups", s.handleCreateGroup)
	private.GET("/groups", s.handleListGroups)
	private.GET("/groups/:id", s.handleGroupDetails)
	private.POST("/groups/:id/members", s.handleAddGroupMember)
	private.DELETE("/groups/:id/members/me", s.handleLeaveGroup)

	private.GET("/messages/direct/:partnerId", s.handleDirectHistory)
	private.GET("/messages/group/:groupId", s.handleGroupHistory)
	private.GET("/conversations", s.handleConversations)

	return engine
}
