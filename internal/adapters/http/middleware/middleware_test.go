package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request within the interval should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other IPs have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("bucket should refill after the interval")
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Second)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	rl.Allow("1.2.3.4")
	now = now.Add(10 * time.Minute)
	rl.Allow("5.6.7.8")

	if _, ok := rl.visitors["1.2.3.4"]; ok {
		t.Error("idle visitor should have been swept")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, time.Hour))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:5000" + string(rune('0'+i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429] (port must not split the bucket)", codes)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
}

func TestCSRF(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	handler := CSRF(key, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	form := httptest.NewRequest("POST", "/mood", strings.NewReader("mood=3"))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, form)
	if rec.Code != http.StatusForbidden {
		t.Errorf("form post without token: status = %d, want 403", rec.Code)
	}

	api := httptest.NewRequest("POST", "/mood", strings.NewReader(`{"mood":3}`))
	api.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, api)
	if rec.Code != http.StatusNoContent {
		t.Errorf("json post: status = %d, want 204", rec.Code)
	}
}
