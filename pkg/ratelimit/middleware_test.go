package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(ctx context.Context, cfg RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, cfg))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := newRouter(ctx, RateLimitConfig{
		RPS:             0.001,
		Burst:           2,
		CleanupInterval: time.Minute,
		MaxAge:          time.Minute,
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitIsPerClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := newRouter(ctx, RateLimitConfig{
		RPS:             0.001,
		Burst:           1,
		CleanupInterval: time.Minute,
		MaxAge:          time.Minute,
	})

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = addr
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, addr)
	}
}
