package directus

import (
	"fmt"
	"time"
)

// UpstreamError reports a failed call: transport failure, non-success
// status, or a body that is not the expected JSON envelope.
type UpstreamError struct {
	Op       string
	Resource string
	Status   int      // 0 when no response arrived
	Codes    []string // Directus error codes from the response body, if any
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("directus %s %s: status %d: %v", e.Op, e.Resource, e.Status, e.Err)
	}
	return fmt.Sprintf("directus %s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) hasCode(code string) bool {
	for _, c := range e.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// NotFoundError reports that a record requested by id does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("directus %s %s: not found", e.Resource, e.ID)
}

// UpstreamTimeoutError reports a call that did not complete within the
// client's per-call timeout.
type UpstreamTimeoutError struct {
	Op       string
	Resource string
	Timeout  time.Duration
	Err      error
}

func (e *UpstreamTimeoutError) Error() string {
	return fmt.Sprintf("directus %s %s: no response within %s", e.Op, e.Resource, e.Timeout)
}

func (e *UpstreamTimeoutError) Unwrap() error { return e.Err }
