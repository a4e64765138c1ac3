package handlers

import (
	"errors"
	"net/http"

	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/utils"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RespondError translates service errors into HTTP error responses.
// Sentinel errors from the services package map onto 4xx statuses,
// anything unrecognized is logged and reported as a 500.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTriviaNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrNoActiveRooms),
		errors.Is(err, services.ErrInviteCodeMissing):
		utils.NotFoundResponse(c, err.Error())

	case errors.Is(err, services.ErrBannedFromRoom),
		errors.Is(err, services.ErrRoomFull),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotCreator),
		errors.Is(err, services.ErrPrivateRoom),
		errors.Is(err, services.ErrInvalidInviteCode),
		errors.Is(err, services.ErrSelfBan),
		errors.Is(err, services.ErrChatDisabled),
		errors.Is(err, services.ErrWatchlistDisabled),
		errors.Is(err, services.ErrTriviaDisabled):
		utils.ForbiddenResponse(c, err.Error())

	case errors.Is(err, services.ErrRoomNameTaken),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicateEntry):
		utils.ConflictResponse(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())

	case errors.Is(err, services.ErrTriviaNeedsOptions),
		errors.Is(err, services.ErrBadCursor),
		errors.Is(err, services.ErrInvalidInput):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrMetadataUnavailable):
		utils.UnavailableResponse(c, err.Error())

	default:
		logger.LogError(err, "Unhandled service error", map[string]interface{}{
			"path":   c.FullPath(),
			"method": c.Request.Method,
		})
		utils.InternalErrorResponse(c, "")
	}
}
