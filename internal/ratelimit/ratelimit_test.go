package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, rate string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mini := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() {
		rdb.Close() //nolint:errcheck // test cleanup
	})

	limit, err := Middleware(rdb, rate)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/generate", func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set("user_id", user)
		}
		c.Next()
	}, limit, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func post(router *gin.Engine, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddlewareLimitsPerUser(t *testing.T) {
	router := newRouter(t, "2-M")

	assert.Equal(t, http.StatusOK, post(router, "user-1").Code)

	second := post(router, "user-1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := post(router, "user-1")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Contains(t, third.Body.String(), "too_many_requests")

	// other users have their own budget
	assert.Equal(t, http.StatusOK, post(router, "user-2").Code)
}

func TestMiddlewareFallsBackToIP(t *testing.T) {
	router := newRouter(t, "1-M")

	assert.Equal(t, http.StatusOK, post(router, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "").Code)
}

func TestMiddlewareRejectsBadRate(t *testing.T) {
	_, err := Middleware(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "lots")
	assert.ErrorContains(t, err, "invalid rate")
}
