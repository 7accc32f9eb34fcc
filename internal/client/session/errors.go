package session

import "errors"

// Authentication-flow errors. Each of these leaves the session Anonymous
// and the persisted token cleared; none is retried silently. Match with
// errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedToken     = errors.New("no usable token in response")
	ErrProfileFetch       = errors.New("fetching user profile failed")
	ErrNoStoredToken      = errors.New("no stored token")
)
