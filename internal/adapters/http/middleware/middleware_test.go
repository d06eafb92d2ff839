package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request within the interval should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("a") {
		t.Fatal("bucket should refill after one interval")
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Second)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	rl.Allow("a")
	rl.Allow("b")
	now = now.Add(visitorTTL + 2*time.Minute)
	rl.Allow("c")

	if got := rl.visitorCount(); got != 1 {
		t.Errorf("visitorCount = %d, want 1 after sweep", got)
	}
}

func TestRateLimit_OnlyPosts(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, time.Hour))(okHandler)

	post := func() int {
		req := httptest.NewRequest("POST", "/berichten", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first POST = %d", code)
	}
	// A different source port is the same client
	req := httptest.NewRequest("POST", "/berichten", nil)
	req.RemoteAddr = "10.0.0.1:6666"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("second POST = %d, want 429", rr.Code)
	}

	for i := 0; i < 5; i++ {
		get := httptest.NewRequest("GET", "/berichten", nil)
		get.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, get)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %d = %d, want 200", i, rr.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %q", rr.Header().Get("X-Frame-Options"))
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("request id %q is not a uuid", seen)
		}
		if rr.Header().Get(RequestIDHeader) != seen {
			t.Errorf("header = %q, context = %q", rr.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		in := uuid.NewString()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, in)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen != in {
			t.Errorf("request id = %q, want %q", seen, in)
		}
	})

	t.Run("malformed replaced", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen == "<script>" {
			t.Error("malformed inbound id must be replaced")
		}
	})
}

func TestCSRF_RejectsPostWithoutToken(t *testing.T) {
	key := []byte(strings.Repeat("k", 32))
	handler := CSRF(key, []string{"localhost:8000"}, false)(okHandler)

	form := url.Values{"text": {"hoi"}}
	req := httptest.NewRequest("POST", "http://localhost:8000/berichten", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://localhost:8000/berichten")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest("GET", "http://localhost:8000/berichten", nil))
	if get.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", get.Code)
	}
}

// csrfRoundTrip fetches a token from host with GET, then posts it back with
// the given Origin.
func csrfRoundTrip(t *testing.T, handler http.Handler, host, origin string) int {
	t.Helper()
	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest("GET", "http://"+host+"/berichten", nil))
	if get.Code != http.StatusOK {
		t.Fatalf("GET status = %d", get.Code)
	}
	token := get.Body.String()

	req := httptest.NewRequest("POST", "http://"+host+"/berichten", strings.NewReader(url.Values{"text": {"hoi"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", origin)
	req.Header.Set("X-CSRF-Token", token)
	for _, c := range get.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr.Code
}

func TestCSRF_PlainHTTPOnAnyHost(t *testing.T) {
	key := []byte(strings.Repeat("k", 32))
	tokenHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(csrf.Token(r)))
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		secure bool
		host   string
		origin string
		want   int
	}{
		{"dev on LAN address", false, "192.168.1.20:8000", "http://192.168.1.20:8000", http.StatusOK},
		{"dev on localhost", false, "localhost:8000", "http://localhost:8000", http.StatusOK},
		{"dev cross origin", false, "192.168.1.20:8000", "http://evil.example", http.StatusForbidden},
		{"production over plain HTTP", true, "192.168.1.20:8000", "http://192.168.1.20:8000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CSRF(key, []string{"localhost:8000"}, tt.secure)(tokenHandler)
			if got := csrfRoundTrip(t, handler, tt.host, tt.origin); got != tt.want {
				t.Errorf("POST status = %d, want %d", got, tt.want)
			}
		})
	}
}
