package handlers

import (
	"net/http"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/websocket"
	"github.com/puviyarasu12/Stream-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	hub       *websocket.Hub
	startedAt time.Time
}

func NewHealthHandler(hub *websocket.Hub) *HealthHandler {
	return &HealthHandler{
		hub:       hub,
		startedAt: time.Now(),
	}
}

// Health reports process, database and relay status. Degraded database
// connectivity turns the whole report to 503 so load balancers rotate
// the instance out.
func (h *HealthHandler) Health(c *gin.Context) {
	dbHealth := database.HealthCheck()

	status := "healthy"
	code := http.StatusOK
	if dbHealth["status"] != "connected" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	payload := map[string]interface{}{
		"status":   status,
		"uptime":   time.Since(h.startedAt).String(),
		"time":     time.Now(),
		"database": dbHealth,
	}
	if h.hub != nil {
		payload["relay"] = h.hub.Stats()
	}

	c.JSON(code, payload)
}
