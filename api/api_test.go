package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-hub/repositories"
	"chat-hub/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) http.Handler {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	users := repositories.NewUserRepository(db)
	groups := repositories.NewGroupRepository(db)
	friends := repositories.NewFriendshipRepository(db)
	messages := repositories.NewMessageRepository(db, log, nil)

	server := NewServer(log,
		services.NewAuthService(users, time.Hour),
		services.NewSocialService(users, friends, groups),
		services.NewHistoryService(users, groups, messages),
		nil)
	return server.Engine()
}

func doJSON(t *testing.T, engine http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)
	return recorder
}

func registerAndLogin(t *testing.T, engine http.Handler, username string) string {
	t.Helper()
	response := doJSON(t, engine, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@chat.local",
		"firstName": "Test",
		"lastName":  "User",
		"password":  "ComplexPass123!",
	})
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func TestAPI_Register_Login_Profile(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t)

	token := registerAndLogin(t, engine, "alice")

	response := doJSON(t, engine, http.MethodGet, "/api/profile", token, nil)
	req.Equal(http.StatusOK, response.Code)

	var profile services.Profile
	req.NoError(json.Unmarshal(response.Body.Bytes(), &profile))
	req.Equal("alice", profile.Username)
	req.Equal("alice@chat.local", profile.Email)

	// Second registration on the same email conflicts
	response = doJSON(t, engine, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2", "email": "alice@chat.local", "password": "ComplexPass123!",
	})
	req.Equal(http.StatusConflict, response.Code)

	// Wrong password stays generic
	response = doJSON(t, engine, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@chat.local", "password": "WrongPassword123!",
	})
	req.Equal(http.StatusUnauthorized, response.Code)
}

func TestAPI_Rejects_Missing_Or_Bad_Token(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t)

	response := doJSON(t, engine, http.MethodGet, "/api/profile", "", nil)
	req.Equal(http.StatusUnauthorized, response.Code)

	response = doJSON(t, engine, http.MethodGet, "/api/profile", "garbage", nil)
	req.Equal(http.StatusUnauthorized, response.Code)
}

func TestAPI_Friend_Request_Workflow(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t)
	aliceToken := registerAndLogin(t, engine, "alice")
	bobToken := registerAndLogin(t, engine, "bob")

	var alice, bob services.Profile
	response := doJSON(t, engine, http.MethodGet, "/api/profile", aliceToken, nil)
	req.NoError(json.Unmarshal(response.Body.Bytes(), &alice))
	response = doJSON(t, engine, http.MethodGet, "/api/profile", bobToken, nil)
	req.NoError(json.Unmarshal(response.Body.Bytes(), &bob))

	response = doJSON(t, engine, http.MethodPost, "/api/friends/requests", aliceToken,
		map[string]string{"addresseeId": bob.ID})
	req.Equal(http.StatusCreated, response.Code, response.Body.String())

	// Bob sees the pending request
	response = doJSON(t, engine, http.MethodGet, "/api/friends/requests", bobToken, nil)
	req.Equal(http.StatusOK, response.Code)
	var pending struct {
		Requests []services.FriendRequest `json:"requests"`
	}
	req.NoError(json.Unmarshal(response.Body.Bytes(), &pending))
	req.Len(pending.Requests, 1)
	req.Equal("alice", pending.Requests[0].From.Username)

	response = doJSON(t, engine, http.MethodPost,
		"/api/friends/requests/"+alice.ID+"/respond", bobToken,
		map[string]bool{"accept": true})
	req.Equal(http.StatusOK, response.Code, response.Body.String())

	// Both sides now list each other
	response = doJSON(t, engine, http.MethodGet, "/api/friends", aliceToken, nil)
	req.Equal(http.StatusOK, response.Code)
	var friends struct {
		Friends []struct {
			Username string `json:"username"`
		} `json:"friends"`
	}
	req.NoError(json.Unmarshal(response.Body.Bytes(), &friends))
	req.Len(friends.Friends, 1)
	req.Equal("bob", friends.Friends[0].Username)
}

func TestAPI_Group_History_Is_Member_Gated(t *testing.T) {
	req := require.New(t)
	engine := newTestEngine(t)
	aliceToken := registerAndLogin(t, engine, "alice")
	outsiderToken := registerAndLogin(t, engine, "mallory")

	response := doJSON(t, engine, http.MethodPost, "/api/groups", aliceToken,
		map[string]string{"name": "team"})
	req.Equal(http.StatusCreated, response.Code)
	var group struct {
		ID string `json:"id"`
	}
	req.NoError(json.Unmarshal(response.Body.Bytes(), &group))

	response = doJSON(t, engine, http.MethodGet, "/api/messages/group/"+group.ID, outsiderToken, nil)
	req.Equal(http.StatusForbidden, response.Code)

	response = doJSON(t, engine, http.MethodGet, "/api/messages/group/"+group.ID, aliceToken, nil)
	req.Equal(http.StatusOK, response.Code)
}
