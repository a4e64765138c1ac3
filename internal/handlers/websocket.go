package handlers

import (
	"net/http"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/middleware"
	"github.com/puviyarasu12/Stream-backend/internal/websocket"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, cfg config.WebSocketConfig) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	if !cfg.CheckOrigin {
		// Browsers cannot attach custom headers to websocket upgrades,
		// origin enforcement is opt-in.
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	return &WebSocketHandler{
		hub:      hub,
		upgrader: upgrader,
	}
}

// HandleConnection upgrades an authenticated request and hands the
// connection to the hub. The JWT arrives as a query parameter, the
// auth middleware has already validated it.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	username := c.GetString("username")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Error("Failed to upgrade websocket connection")
		return
	}

	client := websocket.NewClient(conn, h.hub, userID, username)
	h.hub.Register <- client

	logger.LogRelayEvent("relay_connected", "", client.ConnectionID, map[string]interface{}{
		"user_id": userID,
		"ip":      c.ClientIP(),
	})

	go client.WritePump()
	go client.ReadPump()
}
