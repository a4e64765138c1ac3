package routes

import (
	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/handlers"
	"github.com/puviyarasu12/Stream-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers registration and login. Both sit behind a
// tighter rate limit than the rest of the API.
func SetupAuthRoutes(router *gin.Engine, authHandler *handlers.AuthHandler, cfg config.RateLimitConfig) {
	auth := router.Group("/auth")
	auth.Use(middleware.LoginRateLimit(cfg))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
}
