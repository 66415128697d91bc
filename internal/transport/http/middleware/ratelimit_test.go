package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/transport/http/middleware"
)

type fakeLimiter struct {
	allow func(ctx context.Context, key string) (bool, error)
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return f.allow(ctx, key)
}

func newLimitedEngine(limiter *fakeLimiter) *gin.Engine {
	rsp := testResponder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	r.POST("/login", middleware.RateLimit(limiter, rsp, logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func postLogin(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_UnderLimit_Passes(t *testing.T) {
	limiter := &fakeLimiter{
		allow: func(_ context.Context, _ string) (bool, error) { return true, nil },
	}

	if w := postLogin(newLimitedEngine(limiter)); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRateLimit_OverLimit_Returns429(t *testing.T) {
	limiter := &fakeLimiter{
		allow: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}

	if w := postLogin(newLimitedEngine(limiter)); w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

// A limiter outage must not take logins down with it.
func TestRateLimit_LimiterError_FailsOpen(t *testing.T) {
	limiter := &fakeLimiter{
		allow: func(_ context.Context, _ string) (bool, error) {
			return false, errors.New("redis: connection refused")
		},
	}

	if w := postLogin(newLimitedEngine(limiter)); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (fail open)", w.Code)
	}
}

func TestRateLimit_KeyedByClientIP(t *testing.T) {
	var key string
	limiter := &fakeLimiter{
		allow: func(_ context.Context, k string) (bool, error) {
			key = k
			return true, nil
		},
	}

	postLogin(newLimitedEngine(limiter))
	if key == "" || key == "login:" {
		t.Errorf("limiter key = %q, want a login-prefixed client address", key)
	}
}
