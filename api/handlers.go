package api

import (
	stderrors "errors"
	"net/http"

	"chat-hub/errors"
	"chat-hub/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain sentinels to HTTP status codes. Anything
// unclassified is a 500 and gets logged at the call site.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrUserNotFound),
		stderrors.Is(err, errors.ErrGroupNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrUserAlreadyExists),
		stderrors.Is(err, errors.ErrFriendshipExists):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrInvalidCredentials),
		stderrors.Is(err, errors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case stderrors.Is(err, errors.ErrNotFriends),
		stderrors.Is(err, errors.ErrNotGroupMember):
		return http.StatusForbidden
	case stderrors.Is(err, errors.ErrInvalidPassword),
		stderrors.Is(err, errors.ErrEmptyContent),
		stderrors.Is(err, errors.ErrSelfFriendship):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.auth.Register(services.RegisterInput{
		Username:  body.Username,
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Password:  body.Password,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.auth.Login(body.Email, body.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	profile, err := s.social.GetProfile(callerID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var body updateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := s.social.UpdateProfile(callerID(c), body.FirstName, body.LastName, body.Bio)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleSearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	users, err := s.social.SearchUsers(query, callerID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleListFriends(c *gin.Context) {
	friends, err := s.social.ListFriends(callerID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

func (s *Server) handlePendingRequests(c *gin.Context) {
	requests, err := s.social.PendingRequests(callerID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

type friendRequestBody struct {
	AddresseeID string `json:"addresseeId" binding:"required"`
}

func (s *Server) handleSendFriendRequest(c *gin.Context) {
	var body friendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	friendship, err := s.social.SendFriendRequest(callerID(c), body.AddresseeID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, friendship)
}

type respondRequestBody struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (s *Server) handleRespondFriendRequest(c *gin.Context) {
	var body respondRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	friendship, err := s.social.RespondFriendRequest(callerID(c), c.Param("requesterId"), *body.Accept)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

type createGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) handleCreateGroup(c *gin.Context) {
	var body createGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := s.social.CreateGroup(callerID(c), body.Name, body.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (s *Server) handleListGroups(c *gin.Context) {
	groups, err := s.social.GroupsForUser(callerID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (s *Server) handleGroupDetails(c *gin.Context) {
	details, err := s.social.GroupDetails(callerID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

type addMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (s *Server) handleAddGroupMember(c *gin.Context) {
	var body addMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.social.AddGroupMember(callerID(c), c.Param("id"), body.UserID); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLeaveGroup(c *gin.Context) {
	if err := s.social.LeaveGroup(callerID(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func cursorParam(c *gin.Context) *string {
	if cursor := c.Query("cursor"); cursor != "" {
		return &cursor
	}
	return nil
}

func (s *Server) handleDirectHistory(c *gin.Context) {
	messages, next, err := s.history.DirectHistory(callerID(c), c.Param("partnerId"), cursorParam(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "nextCursor": next})
}

func (s *Server) handleGroupHistory(c *gin.Context) {
	messages, next, err := s.history.GroupHistory(callerID(c), c.Param("groupId"), cursorParam(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "nextCursor": next})
}

func (s *Server) handleConversations(c *gin.Context) {
	conversations, err := s.history.Conversations(callerID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}
