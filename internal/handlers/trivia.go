package handlers

import (
	"net/http"

	"github.com/puviyarasu12/Stream-backend/internal/middleware"
	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/utils"
	"github.com/puviyarasu12/Stream-backend/internal/websocket"

	"github.com/gin-gonic/gin"
)

type TriviaHandler struct {
	trivia *services.TriviaService
	hub    *websocket.Hub
}

func NewTriviaHandler(trivia *services.TriviaService, hub *websocket.Hub) *TriviaHandler {
	return &TriviaHandler{
		trivia: trivia,
		hub:    hub,
	}
}

type triviaRequest struct {
	Movie         string   `json:"movie"`
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Category      string   `json:"category"`
	Points        int      `json:"points"`
}

func (r *triviaRequest) toInput() services.TriviaInput {
	return services.TriviaInput{
		Movie:         r.Movie,
		Question:      r.Question,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Category:      r.Category,
		Points:        r.Points,
	}
}

// ================================
// Global Bank
// ================================

// ListGlobalTrivia serves the shared question bank. Public, no auth.
func (h *TriviaHandler) ListGlobalTrivia(c *gin.Context) {
	category := c.Query("category")

	questions, err := h.trivia.ListGlobalTrivia(category)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"trivia": questions,
		"count":  len(questions),
	})
}

func (h *TriviaHandler) CreateGlobalTrivia(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req triviaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid trivia data")
		return
	}

	question, err := h.trivia.CreateGlobalTrivia(userID, req.toInput())
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, question)
}

// ================================
// Room Trivia
// ================================

func (h *TriviaHandler) ListRoomTrivia(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	questions, err := h.trivia.ListRoomTrivia(roomID, userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"trivia": questions,
		"count":  len(questions),
	})
}

func (h *TriviaHandler) CreateRoomTrivia(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	roomID := c.Param("id")

	var req triviaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid trivia data")
		return
	}

	question, err := h.trivia.CreateRoomTrivia(roomID, userID, req.toInput())
	if err != nil {
		RespondError(c, err)
		return
	}

	if h.hub != nil {
		msg := websocket.NewWSMessage(websocket.EventNewTrivia, map[string]interface{}{
			"trivia": question,
		})
		h.hub.BroadcastToRoom(roomID, msg)
	}

	utils.CreatedResponse(c, question)
}

func (h *TriviaHandler) AnswerTrivia(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	triviaID := c.Param("triviaId")

	var req struct {
		Answer string `json:"answer" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid answer data")
		return
	}

	result, err := h.trivia.AnswerTrivia(userID, triviaID, req.Answer)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
