package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind tells the caller how to react to a failed provider call.
type ErrorKind int

const (
	// KindNone means the call succeeded.
	KindNone ErrorKind = iota
	// KindNotFound means the symbol or session has no data; skip silently.
	KindNotFound
	// KindAuthDenied means the plan does not cover the request; skip, no retry.
	KindAuthDenied
	// KindRateLimited means the provider throttled us; cool down and continue.
	KindRateLimited
	// KindOther is any other failure.
	KindOther
)

// String returns a lower-case label for logs.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindAuthDenied:
		return "auth_denied"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "other"
	}
}

// Sentinel errors matched with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrAuthDenied  = errors.New("not authorized")
	ErrRateLimited = errors.New("rate limited")
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Status     string // provider status field, e.g. NOT_AUTHORIZED
	Message    string
	Endpoint   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, msg)
}

// Is maps the response onto the sentinel errors so callers can use errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.kind() == KindNotFound
	case ErrAuthDenied:
		return e.kind() == KindAuthDenied
	case ErrRateLimited:
		return e.kind() == KindRateLimited
	}
	return false
}

func (e *APIError) kind() ErrorKind {
	switch {
	case e.StatusCode == http.StatusNotFound || strings.EqualFold(e.Status, "NOT_FOUND"):
		return KindNotFound
	case e.StatusCode == http.StatusForbidden || strings.EqualFold(e.Status, "NOT_AUTHORIZED"):
		return KindAuthDenied
	case e.StatusCode == http.StatusTooManyRequests ||
		strings.Contains(strings.ToLower(e.Message), "too many requests"):
		return KindRateLimited
	default:
		return KindOther
	}
}

// Classify returns the ErrorKind for err.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAuthDenied):
		return KindAuthDenied
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	default:
		return KindOther
	}
}
