package geo

import (
	"errors"
	"fmt"
)

// Sentinel errors for location lookups.
var (
	ErrNotConfigured = errors.New("geo: geocoding API key is missing")
	ErrNoResults     = errors.New("geo: no results")
	ErrDenied        = errors.New("geo: request denied")
	ErrRateLimited   = errors.New("geo: rate limited by server")
	ErrServer        = errors.New("geo: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op       string // "geocode", "locate"
	Provider string // "google", "ipinfo"
	Status   int    // Upstream HTTP status, 0 when no response was received
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s [%d]: %v", e.Provider, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the upstream status recorded in err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
