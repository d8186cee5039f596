package ticketmaster

import (
	"errors"
	"fmt"
)

// Sentinel errors for Discovery API operations.
var (
	ErrNotConfigured = errors.New("ticketmaster: API key is missing")
	ErrNotFound      = errors.New("ticketmaster: not found")
	ErrRateLimited   = errors.New("ticketmaster: rate limited by server")
	ErrBadRequest    = errors.New("ticketmaster: bad request")
	ErrServer        = errors.New("ticketmaster: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // "search", "suggest", "detail"
	Status int    // Upstream HTTP status, 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ticketmaster %s [%d]: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("ticketmaster %s: %v", e.Op, e.Err)
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

func wrapError(op string, status int, err error) error {
	return &Error{Op: op, Status: status, Err: err}
}
