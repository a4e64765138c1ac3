package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAuthHandlerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(nil)

	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	return router
}

func TestRegisterValidation(t *testing.T) {
	router := setupAuthHandlerRouter()

	bodies := []string{
		`{}`,
		`{"username":"moviefan"}`,
		`{"username":"moviefan","email":"not-an-email","password":"Password1"}`,
	}
	for _, body := range bodies {
		w := postJSON(router, "/auth/register", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s should be rejected", body)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	}
}

func TestLoginValidation(t *testing.T) {
	router := setupAuthHandlerRouter()

	for _, body := range []string{`{}`, `{"email":"user@example.com"}`, `{"email":"nope","password":"x"}`} {
		w := postJSON(router, "/auth/login", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s should be rejected", body)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	}
}
