package handlers

import (
	"net/http"

	"github.com/puviyarasu12/Stream-backend/internal/middleware"
	"github.com/puviyarasu12/Stream-backend/internal/models"
	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// ================================
// Profile
// ================================

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req struct {
		PhotoURL    *string                 `json:"photoUrl"`
		Bio         *string                 `json:"bio"`
		SocialLinks map[string]string       `json:"socialLinks"`
		Preferences *models.UserPreferences `json:"preferences"`
		Badges      []string                `json:"badges"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid profile data")
		return
	}

	user, err := h.users.UpdateProfile(userID, services.ProfileUpdate{
		PhotoURL:    req.PhotoURL,
		Bio:         req.Bio,
		SocialLinks: req.SocialLinks,
		Preferences: req.Preferences,
		Badges:      req.Badges,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, "Profile updated successfully", user)
}

func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	stats, err := h.users.GetStats(userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// ================================
// Personal Watchlist
// ================================

func (h *UserHandler) GetWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	watchlist, err := h.users.GetWatchlist(userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"watchlist": watchlist,
		"count":     len(watchlist),
	})
}

func (h *UserHandler) AddToWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

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

	user, err := h.users.AddToWatchlist(userID, models.WatchlistMovie{
		ID:        req.Movie.ID,
		Title:     req.Movie.Title,
		Thumbnail: req.Movie.Thumbnail,
		Year:      req.Movie.Year,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, map[string]interface{}{
		"watchlist": user.Watchlist,
	})
}

func (h *UserHandler) RemoveFromWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	movieID := c.Param("movieId")

	user, err := h.users.RemoveFromWatchlist(userID, movieID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"watchlist": user.Watchlist,
	})
}

func (h *UserHandler) VoteWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	movieID := c.Param("movieId")

	user, voted, err := h.users.ToggleWatchlistVote(userID, movieID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"voted":     voted,
		"watchlist": user.Watchlist,
	})
}

func (h *UserHandler) SelectFromWatchlist(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	movieID := c.Param("movieId")

	movie, err := h.users.SelectFromWatchlist(userID, movieID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"movie": movie,
	})
}
