package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doFrom(r http.Handler, remote string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.RemoteAddr = remote
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BlocksExceedingBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	clock := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return clock }
	r := newLimitedRouter(rl)

	for i := range 3 {
		w := doFrom(r, "1.2.3.4:1234")
		if i < 2 && w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
		if i == 2 {
			if w.Code != http.StatusTooManyRequests {
				t.Fatalf("request %d: expected 429, got %d", i, w.Code)
			}
			if w.Header().Get("Retry-After") == "" {
				t.Error("expected Retry-After header")
			}
		}
	}
}

func TestRateLimiter_IndependentClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	clock := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return clock }
	r := newLimitedRouter(rl)

	doFrom(r, "1.1.1.1:1000")
	if w := doFrom(r, "2.2.2.2:1000"); w.Code != http.StatusOK {
		t.Fatalf("different IP should not be rate limited, got %d", w.Code)
	}
	if rl.Tracked() != 2 {
		t.Errorf("expected 2 tracked clients, got %d", rl.Tracked())
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(2, 1)
	clock := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return clock }

	if !rl.Allow("a") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("a") {
		t.Fatal("second request should be limited")
	}

	clock = clock.Add(250 * time.Millisecond)
	if rl.Allow("a") {
		t.Fatal("half a token is not enough")
	}

	clock = clock.Add(250 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatal("expected a token after 500ms at 2/s")
	}
}

func TestRateLimiter_RefillCapsAtBurst(t *testing.T) {
	rl := NewRateLimiter(100, 3)
	clock := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return clock }

	rl.Allow("a")
	clock = clock.Add(time.Hour)

	passed := 0
	for range 10 {
		if rl.Allow("a") {
			passed++
		}
	}
	if passed != 3 {
		t.Errorf("expected burst of 3 after idle, got %d", passed)
	}
}
