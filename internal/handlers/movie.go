package handlers

import (
	"net/http"
	"strings"

	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	metadata *services.MetadataService
}

func NewMovieHandler(metadata *services.MetadataService) *MovieHandler {
	return &MovieHandler{
		metadata: metadata,
	}
}

func (h *MovieHandler) SearchMovies(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	movies, err := h.metadata.SearchMovies(query)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, map[string]interface{}{
		"movies": movies,
		"count":  len(movies),
	})
}

func (h *MovieHandler) GetMovie(c *gin.Context) {
	movieID := c.Param("imdbId")

	movie, err := h.metadata.GetMovie(movieID)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, movie)
}
