package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/puviyarasu12/Stream-backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupCORSRouter(cfg config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func corsConfig() config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   []string{"https://app.example.com"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	router := setupCORSRouter(corsConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSUnknownOrigin(t *testing.T) {
	router := setupCORSRouter(corsConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	router.ServeHTTP(w, req)

	// The request still runs, only the allow-origin header is withheld
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSLocalhostAlwaysAllowed(t *testing.T) {
	router := setupCORSRouter(corsConfig())

	for _, origin := range []string{"http://localhost:3000", "http://127.0.0.1:5173"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		router.ServeHTTP(w, req)

		assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORSPreflight(t *testing.T) {
	router := setupCORSRouter(corsConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, w.Body.String())
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"https://a.example.com", " https://b.example.com "}

	assert.True(t, isOriginAllowed("https://a.example.com", allowed))
	// Configured origins are trimmed before comparison
	assert.True(t, isOriginAllowed("https://b.example.com", allowed))
	assert.False(t, isOriginAllowed("https://c.example.com", allowed))
	assert.False(t, isOriginAllowed("", nil))
}
