package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the request never produced an HTTP response
	// (connection refused, timeout, DNS failure).
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned for a 401 response. It is the sole
	// trigger for the executor's refresh protocol.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired means a 401 could not be recovered: either the
	// refresh failed, or the retried call was rejected again. The session
	// has been logged out by the time this is returned.
	ErrSessionExpired = errors.New("session expired")

	// ErrMalformedResponse means the server answered 2xx but the body did
	// not decode into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for non-2xx responses other than 401.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
