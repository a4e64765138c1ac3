package handlers

import (
	"errors"
	"net/http"

	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/utils"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{
		auth: auth,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" validate:"required,username"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,strong_password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid registration data")
		return
	}
	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(verrs))
		return
	}

	result, err := h.auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, map[string]interface{}{
		"token": result.Token,
		"user":  result.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid login data")
		return
	}
	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(verrs))
		return
	}

	result, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.LogSecurityEvent("login_rejected", "", c.ClientIP(), map[string]interface{}{
				"email": req.Email,
			})
		}
		RespondError(c, err)
		return
	}

	logger.LogUserAction(result.User.ID.Hex(), "user_login", map[string]interface{}{
		"ip": c.ClientIP(),
	})

	utils.SuccessResponseWithMessage(c, "Login successful", map[string]interface{}{
		"token": result.Token,
		"user":  result.User,
	})
}

func validationDetails(verrs []utils.ValidationError) map[string]string {
	details := make(map[string]string, len(verrs))
	for _, ve := range verrs {
		details[ve.Field] = ve.Message
	}
	return details
}
