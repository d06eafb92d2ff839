package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"squadpage/internal/adapters/http/perf"
)

// newTimedRouter mounts Timing inside a chi router the way the app does.
func newTimedRouter(collector *perf.Collector) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Timing(collector, 0))
	r.Get("/student/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/kapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	return r
}

// TestTimingMiddleware_EmitsEntry verifies that a request entry is recorded
// under its route pattern.
func TestTimingMiddleware_EmitsEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := newTimedRouter(collector)

	for _, path := range []string{"/student/1", "/student/2"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if collector.TotalRecorded() != 2 {
		t.Fatalf("TotalRecorded = %d, want 2", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 5)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Label != "GET /student/{id}" || snap.SlowestRoutes[0].Count != 2 {
		t.Errorf("SlowestRoutes = %+v", snap.SlowestRoutes)
	}
}

// TestTimingMiddleware_SkipsStatic verifies static assets are excluded from timing.
func TestTimingMiddleware_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	rr := httptest.NewRecorder()
	newTimedRouter(collector).ServeHTTP(rr, httptest.NewRequest("GET", "/static/styles.css", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0 (static excluded)", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTimingMiddleware_CapturesStatusCode verifies the status code and failure flag.
func TestTimingMiddleware_CapturesStatusCode(t *testing.T) {
	collector := perf.NewCollector(100)
	rr := httptest.NewRecorder()
	newTimedRouter(collector).ServeHTTP(rr, httptest.NewRequest("GET", "/kapot", nil))

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 5)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Failures != 1 {
		t.Errorf("SlowestRoutes = %+v", snap.SlowestRoutes)
	}
}

// TestTimingMiddleware_NilCollector verifies middleware works without a collector.
func TestTimingMiddleware_NilCollector(t *testing.T) {
	rr := httptest.NewRecorder()
	newTimedRouter(nil).ServeHTTP(rr, httptest.NewRequest("GET", "/student/3", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestRouteLabel_OutsideRouter verifies the raw path is used without chi.
func TestRouteLabel_OutsideRouter(t *testing.T) {
	if got := routeLabel(httptest.NewRequest("GET", "/lente", nil)); got != "/lente" {
		t.Errorf("routeLabel = %q, want /lente", got)
	}
}
