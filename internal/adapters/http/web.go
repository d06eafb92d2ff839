package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"squadpage/internal/adapters/email"
	"squadpage/internal/adapters/http/middleware"
	"squadpage/internal/adapters/http/perf"
	messageStore "squadpage/internal/adapters/storage/message"
	personStore "squadpage/internal/adapters/storage/person"
	squadStore "squadpage/internal/adapters/storage/squad"
	"squadpage/internal/application/query"
)

// Stores holds all storage dependencies.
type Stores struct {
	PersonStore  personStore.Store
	SquadStore   squadStore.Store
	MessageStore messageStore.Store
}

// Options configures the HTTP surface.
type Options struct {
	// StaticDir is served under /static/. Default "public".
	StaticDir string
	// Roster scopes every person and squad listing. Default query.DefaultRoster.
	Roster   query.Roster
	TeamName string

	// CSRFKey must be 32 bytes; nil disables CSRF protection.
	CSRFKey []byte
	// TrustedOrigins lists Referer hosts accepted over plain HTTP.
	TrustedOrigins []string
	SecureCookies  bool

	// RateLimitPerSecond caps form posts per client. Default 10.
	RateLimitPerSecond int
	SlowRequestMs      int

	Notifier   email.Sender
	NotifyFrom string
	NotifyTo   []string

	// Collector backs /debug/perf; nil disables the endpoint.
	Collector *perf.Collector
}

// app carries the wired dependencies into the handlers.
type app struct {
	stores Stores
	opts   Options
	views  *renderer
}

// ErrBadCSRFKey reports a CSRF key of the wrong length.
var ErrBadCSRFKey = errors.New("csrf key must be 32 bytes")

// NewCSRFKey returns a random 32-byte key for development runs.
func NewCSRFKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}

// ParseCSRFKey decodes a 64-character hex key.
func ParseCSRFKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, ErrBadCSRFKey
	}
	return key, nil
}

// NewMux wires HTTP handlers for the app.
// PRE: every store in s is non-nil
// POST: Returns the router with the full middleware stack, or a configuration error
func NewMux(s Stores, opts Options) (http.Handler, error) {
	if s.PersonStore == nil || s.SquadStore == nil || s.MessageStore == nil {
		return nil, errors.New("web: person, squad and message stores are required")
	}
	if opts.CSRFKey != nil && len(opts.CSRFKey) != 32 {
		return nil, ErrBadCSRFKey
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "public"
	}
	if opts.Roster == (query.Roster{}) {
		opts.Roster = query.DefaultRoster
	}
	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = 10
	}

	views, err := newRenderer()
	if err != nil {
		return nil, err
	}
	a := &app{stores: s, opts: opts, views: views}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Timing(opts.Collector, opts.SlowRequestMs))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(opts.RateLimitPerSecond, time.Second)))
	if opts.CSRFKey != nil {
		r.Use(middleware.CSRF(opts.CSRFKey, opts.TrustedOrigins, opts.SecureCookies))
	}

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if opts.Collector != nil {
		r.Get("/debug/perf", a.handlePerf)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))

	r.Get("/", a.handleRoster(query.Ascending))
	r.Get("/aflopend-alfabetische-volgorde", a.handleRoster(query.Descending))
	r.Get("/{season}", a.handleSeason)
	r.Get("/student/{id}", a.handleStudent)
	r.Post("/student/{id}", a.handlePostStudentMessage)
	r.Get("/berichten", a.handleMessages)
	r.Post("/berichten", a.handlePostDemoMessage)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return r, nil
}
