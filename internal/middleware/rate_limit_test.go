package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d rejected inside budget", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("request over budget allowed")
	}

	// Other keys are independent.
	if !limiter.Allow("5.6.7.8") {
		t.Fatal("unrelated key rejected")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first request rejected")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("second request allowed within window")
	}

	time.Sleep(20 * time.Millisecond)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("request rejected after window reset")
	}
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)

	engine := gin.New()
	engine.Use(limiter.Middleware())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
}
