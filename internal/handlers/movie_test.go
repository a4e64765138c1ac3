package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSearchMoviesRequiresQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMovieHandler(nil)
	router := gin.New()
	router.GET("/movies/search", authAs("alice", "Alice"), h.SearchMovies)

	for _, path := range []string{"/movies/search", "/movies/search?q=", "/movies/search?q=%20%20"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s should be rejected", path)
		assert.Contains(t, w.Body.String(), "Query parameter 'q' is required")
	}
}
