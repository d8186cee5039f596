package spotify

import (
	"errors"
	"fmt"
)

// Sentinel errors for Spotify operations.
var (
	ErrNotConfigured = errors.New("spotify: client credentials are missing")
	ErrNotFound      = errors.New("spotify: not found")
	ErrRateLimited   = errors.New("spotify: rate limited by server")
	ErrUnauthorized  = errors.New("spotify: unauthorized")
	ErrServer        = errors.New("spotify: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // "token", "searchArtist", "artistAlbums"
	Status int    // Upstream HTTP status, 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("spotify %s [%d]: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("spotify %s: %v", e.Op, e.Err)
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
