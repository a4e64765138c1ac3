package handlers

import (
	"net/http"
	"strconv"

	"github.com/puviyarasu12/Stream-backend/internal/middleware"
	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/utils"
	"github.com/puviyarasu12/Stream-backend/internal/websocket"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	rooms     *services.RoomService
	playback  *services.PlaybackService
	watchlist *services.WatchlistService
	messages  *services.MessageService
	hub       *websocket.Hub
}

func NewRoomHandler(rooms *services.RoomService, playback *services.PlaybackService, watchlist *services.WatchlistService, messages *services.MessageService, hub *websocket.Hub) *RoomHandler {
	return &RoomHandler{
		rooms:     rooms,
		playback:  playback,
		watchlist: watchlist,
		messages:  messages,
		hub:       hub,
	}
}

// ================================
// Room Lifecycle
// ================================

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required,min=1,max=100"`
		IsPrivate bool   `json:"isPrivate"`
		Movie     *struct {
			Title       string  `json:"title"`
			URL         string  `json:"url"`
			Thumbnail   string  `json:"thumbnail"`
			CurrentTime float64 `json:"currentTime"`
			IsPlaying   bool    `json:"isPlaying"`
		} `json:"movie"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid room data")
		return
	}

	var movie *models.MovieState
	if req.Movie != nil {
		movie = &models.MovieState{
			Title:       req.Movie.Title,
			URL:         req.Movie.URL,
			Thumbnail:   req.Movie.Thumbnail,
			CurrentTime: req.Movie.CurrentTime,
			IsPlaying:   req.Movie.IsPlaying,
		}
	}

	room, err := h.rooms.CreateRoom(userID, req.Name, movie, req.IsPrivate)
	if err != nil {
		RespondError(c, err)
		return
	}

	logger.LogUserAction(userID, "room_created", map[string]interface{}{
		"room_id": room.ID.Hex(),
		"name":    room.Name,
		"ip":      c.ClientIP(),
	})

	utils.CreatedResponse(c, room)
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.ListActiveRooms()
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom returns the room and admits the viewer as a participant
// when the room's rules allow it.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	room, err := h.rooms.ViewRoom(roomID, userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, room)
}

func (h *RoomHandler) GetRandomRoom(c *gin.Context) {
	room, err := h.rooms.RandomActiveRoom()
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, room.Summary())
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	if err := h.rooms.DeleteRoom(roomID, userID); err != nil {
		RespondError(c, err)
		return
	}

	logger.LogUserAction(userID, "room_deleted", map[string]interface{}{
		"room_id": roomID,
		"ip":      c.ClientIP(),
	})

	utils.SuccessResponseWithMessage(c, "Room deleted successfully", nil)
}

func (h *RoomHandler) GetInviteCode(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	code, err := h.rooms.GetInviteCode(roomID, userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"inviteCode": code,
	})
}

func (h *RoomHandler) UpdateSettings(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	// Pointer fields distinguish "absent" from zero values; unknown
	// fields in the payload are dropped by the explicit schema.
	var req struct {
		MaxParticipants *int    `json:"maxParticipants"`
		AllowChat       *bool   `json:"allowChat"`
		AllowWatchlist  *bool   `json:"allowWatchlist"`
		AllowTrivia     *bool   `json:"allowTrivia"`
		Autoplay        *bool   `json:"autoplay"`
		Description     *string `json:"description"`
		VideoLink       *string `json:"videoLink"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid settings data")
		return
	}

	room, err := h.rooms.UpdateSettings(roomID, userID, services.SettingsUpdate{
		MaxParticipants: req.MaxParticipants,
		AllowChat:       req.AllowChat,
		AllowWatchlist:  req.AllowWatchlist,
		AllowTrivia:     req.AllowTrivia,
		Autoplay:        req.Autoplay,
		Description:     req.Description,
		VideoLink:       req.VideoLink,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, "Settings updated successfully", room.Settings)
}

// ================================
// Membership
// ================================

func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		RoomID     string `json:"roomId"`
		InviteCode string `json:"inviteCode"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid join data")
		return
	}
	if req.RoomID == "" && req.InviteCode == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Provide roomId or inviteCode")
		return
	}

	room, err := h.rooms.JoinRoom(userID, req.InviteCode, req.RoomID)
	if err != nil {
		RespondError(c, err)
		return
	}

	logger.LogUserAction(userID, "room_joined", map[string]interface{}{
		"room_id": room.ID.Hex(),
		"ip":      c.ClientIP(),
	})

	utils.SuccessResponse(c, room)
}

func (h *RoomHandler) BanUser(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid ban data")
		return
	}

	room, err := h.rooms.BanUser(roomID, userID, req.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	logger.LogUserAction(userID, "user_banned", map[string]interface{}{
		"room_id":     roomID,
		"banned_user": req.UserID,
		"ip":          c.ClientIP(),
	})

	utils.SuccessResponseWithMessage(c, "User banned", map[string]interface{}{
		"participants": room.Participants,
		"bannedUsers":  room.BannedUsers,
	})
}

func (h *RoomHandler) UnbanUser(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid unban data")
		return
	}

	room, err := h.rooms.UnbanUser(roomID, userID, req.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, "User unbanned", map[string]interface{}{
		"participants": room.Participants,
		"bannedUsers":  room.BannedUsers,
	})
}

// ================================
// Playback
// ================================

func (h *RoomHandler) UpdateMovie(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	// currentTime and isPlaying bind through pointers so zero values
	// (position 0, paused) still satisfy required.
	var req struct {
		Title       *string  `json:"title"`
		URL         *string  `json:"url"`
		Thumbnail   *string  `json:"thumbnail"`
		CurrentTime *float64 `json:"currentTime" binding:"required"`
		IsPlaying   *bool    `json:"isPlaying" binding:"required"`
		Timestamp   *int64   `json:"timestamp"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid playback data")
		return
	}

	room, action, err := h.playback.UpdateMovieState(roomID, userID, services.PlaybackUpdate{
		Title:       req.Title,
		URL:         req.URL,
		Thumbnail:   req.Thumbnail,
		CurrentTime: *req.CurrentTime,
		IsPlaying:   *req.IsPlaying,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	h.broadcastVideoSync(room, userID, action)

	utils.SuccessResponse(c, map[string]interface{}{
		"movie":  room.Movie,
		"action": action,
	})
}

// ================================
// Watchlist & Voting
// ================================

func (h *RoomHandler) AddToWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	var req struct {
		Movie struct {
			ID        string `json:"id" binding:"required"`
			Title     string `json:"title" binding:"required"`
			Thumbnail string `json:"thumbnail"`
			Year      string `json:"year"`
		} `json:"movie" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid watchlist data")
		return
	}

	room, err := h.watchlist.AddMovie(roomID, userID, models.WatchlistMovie{
		ID:        req.Movie.ID,
		Title:     req.Movie.Title,
		Thumbnail: req.Movie.Thumbnail,
		Year:      req.Movie.Year,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	h.broadcastPollUpdate(room, userID)

	utils.CreatedResponse(c, map[string]interface{}{
		"watchlist": room.Watchlist,
	})
}

func (h *RoomHandler) VoteWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")
	movieID := c.Param("movieId")

	room, voted, err := h.watchlist.ToggleVote(roomID, userID, movieID)
	if err != nil {
		RespondError(c, err)
		return
	}

	h.broadcastPollUpdate(room, userID)

	utils.SuccessResponse(c, map[string]interface{}{
		"voted":     voted,
		"watchlist": room.Watchlist,
	})
}

func (h *RoomHandler) SelectFromWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")
	movieID := c.Param("movieId")

	room, err := h.watchlist.SelectMovie(roomID, userID, movieID)
	if err != nil {
		RespondError(c, err)
		return
	}

	// Selection is a server-origin playback change, every participant
	// including the requester needs the new state.
	if h.hub != nil {
		msg := websocket.NewWSMessage(websocket.EventVideoSync, map[string]interface{}{
			"movie":  room.Movie,
			"action": services.EventPlay,
			"userId": userID,
		})
		h.hub.BroadcastToRoom(room.ID.Hex(), msg)
	}
	h.broadcastPollUpdate(room, userID)

	utils.SuccessResponse(c, map[string]interface{}{
		"movie":     room.Movie,
		"watchlist": room.Watchlist,
	})
}

// ================================
// Messages
// ================================

func (h *RoomHandler) ListMessages(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	before := c.Query("before")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	messages, hasMore, err := h.messages.ListMessages(roomID, userID, before, limit)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, messages, &utils.Meta{
		Count:   len(messages),
		HasMore: hasMore,
		Before:  before,
	})
}

func (h *RoomHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")
	username := c.GetString("username")

	var req struct {
		Content string `json:"content" binding:"required,max=1000"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid message data")
		return
	}

	message, err := h.messages.SendMessage(roomID, userID, username, req.Content)
	if err != nil {
		RespondError(c, err)
		return
	}

	if h.hub != nil {
		msg := websocket.NewWSMessage(websocket.EventNewMessage, map[string]interface{}{
			"message": message,
		})
		h.hub.BroadcastToRoom(roomID, msg)
	}

	utils.CreatedResponse(c, message)
}

// ================================
// Relay helpers
// ================================

func (h *RoomHandler) broadcastVideoSync(room *models.Room, senderID, action string) {
	if h.hub == nil {
		return
	}
	msg := websocket.NewWSMessage(websocket.EventVideoSync, map[string]interface{}{
		"movie":  room.Movie,
		"action": action,
		"userId": senderID,
	})
	h.hub.BroadcastToRoomExcept(room.ID.Hex(), senderID, msg)
}

func (h *RoomHandler) broadcastPollUpdate(room *models.Room, byUserID string) {
	if h.hub == nil {
		return
	}
	msg := websocket.NewWSMessage(websocket.EventPollUpdate, map[string]interface{}{
		"watchlist": room.Watchlist,
		"userId":    byUserID,
	})
	h.hub.BroadcastToRoom(room.ID.Hex(), msg)
}
