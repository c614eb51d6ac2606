package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/linkstash/server/internal/pkg/jwt"
)

func newAuthRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(secret))
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := c.Get(ContextUserIDKey)
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	secret := []byte("test-secret")
	router := newAuthRouter(secret)

	// errors ride the envelope, so the proof of rejection is that the
	// protected handler never runs
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.NotContains(t, rec.Body.String(), "userId")

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.NotContains(t, rec.Body.String(), "userId")

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.NotContains(t, rec.Body.String(), "userId")

	token, err := jwt.GenerateToken(7, "tester", secret, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"userId":7`)
}
