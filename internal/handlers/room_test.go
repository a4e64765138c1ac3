package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// authAs stands in for the JWT middleware in handler tests.
func authAs(userID, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", username)
		c.Next()
	}
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func setupRoomRouter(authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRoomHandler(nil, nil, nil, nil, nil)

	router := gin.New()
	group := router.Group("/")
	if authed {
		group.Use(authAs("alice", "Alice"))
	}
	group.POST("/rooms", h.CreateRoom)
	group.POST("/rooms/join", h.JoinRoom)
	group.POST("/rooms/:id/ban", h.BanUser)
	group.PATCH("/rooms/:id/movie", h.UpdateMovie)
	group.POST("/rooms/:id/watchlist", h.AddToWatchlist)
	group.GET("/rooms/:id/messages", h.ListMessages)
	group.POST("/rooms/:id/messages", h.SendMessage)
	return router
}

func TestCreateRoomRequiresAuth(t *testing.T) {
	router := setupRoomRouter(false)

	w := postJSON(router, "/rooms", `{"name":"Movie Night"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRoomRejectsMissingName(t *testing.T) {
	router := setupRoomRouter(true)

	w := postJSON(router, "/rooms", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid room data")
}

func TestCreateRoomRejectsOversizedName(t *testing.T) {
	router := setupRoomRouter(true)

	w := postJSON(router, "/rooms", `{"name":"`+strings.Repeat("x", 101)+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinRoomRequiresTarget(t *testing.T) {
	router := setupRoomRouter(true)

	w := postJSON(router, "/rooms/join", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Provide roomId or inviteCode")
}

func TestJoinRoomRejectsMalformedBody(t *testing.T) {
	router := setupRoomRouter(true)

	w := postJSON(router, "/rooms/join", `{"roomId":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid join data")
}

func TestBanUserRequiresTarget(t *testing.T) {
	router := setupRoomRouter(true)

	w := postJSON(router, "/rooms/room-1/ban", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ban data")
}

func TestUpdateMovieRequiresPlaybackFields(t *testing.T) {
	router := setupRoomRouter(true)

	// currentTime and isPlaying are both mandatory
	for _, body := range []string{`{}`, `{"currentTime":12.5}`, `{"isPlaying":true}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/rooms/room-1/movie", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s should be rejected", body)
		assert.Contains(t, w.Body.String(), "Invalid playback data")
	}
}

func TestAddToWatchlistRequiresMovie(t *testing.T) {
	router := setupRoomRouter(true)

	for _, body := range []string{`{}`, `{"movie":{"id":"tt1"}}`, `{"movie":{"title":"The Matrix"}}`} {
		w := postJSON(router, "/rooms/room-1/watchlist", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s should be rejected", body)
		assert.Contains(t, w.Body.String(), "Invalid watchlist data")
	}
}

func TestListMessagesRejectsBadLimit(t *testing.T) {
	router := setupRoomRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms/room-1/messages?limit=many", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid limit")
}

func TestSendMessageRequiresContent(t *testing.T) {
	router := setupRoomRouter(true)

	w := postJSON(router, "/rooms/room-1/messages", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid message data")
}

func TestSendMessageRejectsOversizedContent(t *testing.T) {
	router := setupRoomRouter(true)

	w := postJSON(router, "/rooms/room-1/messages", `{"content":"`+strings.Repeat("a", 1001)+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
