package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestLimiter(limit int, window time.Duration, start time.Time) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(limit, window)
	current := start
	rl.now = func() time.Time { return current }
	return rl, &current
}

func TestRateLimiterAllow(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("denies past the limit and recovers after the window", func(t *testing.T) {
		rl, current := newTestLimiter(3, time.Minute, start)

		for i := 0; i < 3; i++ {
			if !rl.Allow("127.0.0.1") {
				t.Fatalf("request %d denied under the limit", i+1)
			}
		}
		if rl.Allow("127.0.0.1") {
			t.Fatal("request over the limit was allowed")
		}

		*current = current.Add(time.Minute + time.Second)
		if !rl.Allow("127.0.0.1") {
			t.Fatal("still denied after the window passed")
		}
	})

	t.Run("keys do not share a budget", func(t *testing.T) {
		rl, _ := newTestLimiter(1, time.Minute, start)

		if !rl.Allow("127.0.0.1") {
			t.Fatal("first key denied")
		}
		if !rl.Allow("[::1]") {
			t.Fatal("second key charged for the first key's request")
		}
	})

	t.Run("a sliding window frees slots one at a time", func(t *testing.T) {
		rl, current := newTestLimiter(2, time.Minute, start)

		rl.Allow("127.0.0.1")
		*current = current.Add(30 * time.Second)
		rl.Allow("127.0.0.1")
		if rl.Allow("127.0.0.1") {
			t.Fatal("limit not enforced")
		}

		// Only the first request has aged out.
		*current = current.Add(31 * time.Second)
		if !rl.Allow("127.0.0.1") {
			t.Fatal("aged-out request still counted")
		}
		if rl.Allow("127.0.0.1") {
			t.Fatal("second request aged out too early")
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := newTestLimiter(2, time.Minute, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	r := gin.New()
	r.Use(RateLimitMiddleware(rl))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", w.Header().Get("Retry-After"))
	}
}
