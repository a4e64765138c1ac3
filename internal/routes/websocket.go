package routes

import (
	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/handlers"
	"github.com/puviyarasu12/Stream-backend/internal/middleware"
	"github.com/puviyarasu12/Stream-backend/internal/websocket"

	"github.com/gin-gonic/gin"
)

// SetupWebSocketRoutes registers the relay upgrade endpoint. The JWT
// travels as a query parameter, the auth middleware accepts both forms.
func SetupWebSocketRoutes(router *gin.Engine, hub *websocket.Hub, cfg config.WebSocketConfig) {
	wsHandler := handlers.NewWebSocketHandler(hub, cfg)

	router.GET("/api/v1/ws", middleware.JWTAuth(), wsHandler.HandleConnection)
}
