// Package credentials persists the single access token that survives
// client restarts. The session manager is the only writer.
package credentials

import "context"

// Store is a durable home for one serialized access token.
//
// Get returns ("", nil) when no token is stored; a missing token is not
// an error. The store performs no validation of the token's shape — that
// is the session manager's job.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
