package web

import (
	"errors"
	"log/slog"
	"net/http"

	"squadpage/internal/adapters/directus"
	"squadpage/internal/adapters/http/middleware"
)

// statusFor maps an upstream failure to the response status.
func statusFor(err error) int {
	var notFound *directus.NotFoundError
	var timeout *directus.UpstreamTimeoutError
	var upstream *directus.UpstreamError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &timeout), errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes a minimal text response with the mapped status.
// Internal details never reach the client.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	attrs := []any{
		"request_id", middleware.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err.Error(),
	}
	switch status {
	case http.StatusNotFound:
		slog.Info("not_found", attrs...)
		http.Error(w, "not found", status)
	case http.StatusBadGateway:
		slog.Error("upstream_unavailable", attrs...)
		http.Error(w, "bad gateway: the data source is unavailable", status)
	default:
		internalError(w, r, err)
	}
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error",
		"request_id", middleware.GetRequestID(r.Context()),
		"path", r.URL.Path,
		"error", err.Error(),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// badRequest rejects invalid form input before anything is written upstream.
func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.Info("bad_request", "request_id", middleware.GetRequestID(r.Context()), "path", r.URL.Path, "error", err.Error())
	http.Error(w, err.Error(), http.StatusBadRequest)
}
