package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"matchhub/internal/adapters/http/perf"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// TestTiming_RecordsEntry verifies that a request entry is recorded with method and path.
func TestTiming_RecordsEntry(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(okHandler(http.StatusCreated))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/academy/sessions", nil))

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.Requests != 1 {
		t.Fatalf("Requests = %d, want 1", snap.Requests)
	}
	if got := snap.SlowestPaths[0].Path; got != "POST /academy/sessions" {
		t.Errorf("Path = %q", got)
	}
	if snap.SlowestPaths[0].AvgMs < 0 {
		t.Errorf("AvgMs = %v, want >= 0", snap.SlowestPaths[0].AvgMs)
	}
}

// TestTiming_SkipsUntimedPaths verifies static assets and health checks are excluded.
func TestTiming_SkipsUntimedPaths(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(okHandler(http.StatusOK))

	for _, path := range []string{"/static/style.css", "/healthz"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rr.Code)
		}
	}
	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
}

// TestTiming_NilCollector verifies middleware works without a collector.
func TestTiming_NilCollector(t *testing.T) {
	handler := Timing(nil, 0)(okHandler(http.StatusNotFound))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// TestTiming_HandlerPanic verifies the deferred recording still runs when the handler panics.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/refresh", nil))
}

// TestTiming_PoolNoStateLeak verifies that statusWriter reuse does not leak
// status codes between requests.
func TestTiming_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(10)
	Timing(collector, 0)(okHandler(http.StatusInternalServerError)).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/fail", nil))

	implicit := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	implicit.ServeHTTP(rr, httptest.NewRequest("GET", "/ok", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1 (second request must not inherit 500)", snap.ServerErrors)
	}
}

func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/standings", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
