package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/citasmedicas/medico-api/config"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
)

func TestRateLimiter_WithoutRedis(t *testing.T) {
	// Ensure no Redis client is available
	config.SetRedisClientForTesting(nil)
	defer config.SetRedisClientForTesting(nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()

	rateLimiter := RateLimiter(RateLimitConfig{
		Limit:  5,
		Window: 15 * time.Minute,
	})

	r.Use(rateLimiter)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	// Without Redis, all requests should be allowed
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: expected status 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(client)
	defer config.SetRedisClientForTesting(nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()

	window := time.Minute
	r.Use(RateLimiter(RateLimitConfig{Limit: 2, Window: window}))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	key := "ratelimit:/test:192.168.1.1"
	for i := 1; i <= 3; i++ {
		mock.ExpectIncr(key).SetVal(int64(i))
		mock.ExpectExpire(key, window).SetVal(true)
	}

	for i := 1; i <= 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		r.ServeHTTP(w, req)

		expected := http.StatusOK
		if i == 3 {
			expected = http.StatusBadRequest
		}
		if w.Code != expected {
			t.Fatalf("Request %d: expected status %d, got %d", i, expected, w.Code)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet redis expectations: %v", err)
	}
}

func TestRateLimiter_DefaultConfig(t *testing.T) {
	// Ensure no Redis client is available
	config.SetRedisClientForTesting(nil)
	defer config.SetRedisClientForTesting(nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Use rate limiter with empty config to test defaults
	rateLimiter := RateLimiter(RateLimitConfig{})

	r.Use(rateLimiter)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestResetRateLimit_NoRedis(t *testing.T) {
	config.SetRedisClientForTesting(nil)
	defer config.SetRedisClientForTesting(nil)

	err := ResetRateLimit("192.168.1.1", "/test")
	if err == nil {
		t.Error("Expected error when Redis not available, got nil")
	}
}

func TestResetRateLimit_DeletesKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(client)
	defer config.SetRedisClientForTesting(nil)

	key := fmt.Sprintf("ratelimit:%s:%s", "/medicos", "10.0.0.1")
	mock.ExpectDel(key).SetVal(1)

	if err := ResetRateLimit("10.0.0.1", "/medicos"); err != nil {
		t.Fatalf("expected reset to succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet redis expectations: %v", err)
	}
}
