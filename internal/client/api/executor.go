package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// TokenSource supplies the executor with the current access token and the
// refresh/logout hooks it needs to handle a 401 episode. The session
// manager implements it.
type TokenSource interface {
	// Token returns the current access token, or "" when anonymous.
	Token() string

	// Refresh exchanges the session's credentials for a fresh token.
	// Concurrent callers may share one in-flight refresh.
	Refresh(ctx context.Context) error

	// Logout clears the session. Called when a 401 episode cannot be
	// recovered.
	Logout()
}

// Executor wraps API calls with the current bearer token and implements
// the refresh episode protocol: on a 401, refresh at most once and retry
// the original call at most once.
//
// A second 401 after a successful refresh means the server no longer
// accepts this session at all; the executor logs the session out and
// returns ErrSessionExpired rather than looping.
type Executor struct {
	client  *Client
	session TokenSource
}

// NewExecutor returns an Executor issuing calls through client with
// tokens from session.
func NewExecutor(client *Client, session TokenSource) *Executor {
	return &Executor{client: client, session: session}
}

// Do issues an authorized request with a pre-encoded body. Non-401
// failures pass through untouched; the session is only ever modified
// during a 401 episode.
func (e *Executor) Do(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, error) {
	data, err := e.client.Do(ctx, method, path, body, contentType, e.session.Token())
	if !errors.Is(err, ErrUnauthorized) {
		return data, err
	}

	if err := e.session.Refresh(ctx); err != nil {
		e.session.Logout()
		return nil, fmt.Errorf("%w: refresh failed: %v", ErrSessionExpired, err)
	}

	data, err = e.client.Do(ctx, method, path, body, contentType, e.session.Token())
	if errors.Is(err, ErrUnauthorized) {
		e.session.Logout()
		return nil, fmt.Errorf("%w: rejected after refresh", ErrSessionExpired)
	}
	return data, err
}

// Get issues an authorized GET.
func (e *Executor) Get(ctx context.Context, path string) ([]byte, error) {
	return e.Do(ctx, http.MethodGet, path, nil, "")
}

// PostJSON issues an authorized POST with a JSON payload.
func (e *Executor) PostJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	return e.doJSON(ctx, http.MethodPost, path, payload)
}

// PutJSON issues an authorized PUT with a JSON payload.
func (e *Executor) PutJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	return e.doJSON(ctx, http.MethodPut, path, payload)
}

// Delete issues an authorized DELETE.
func (e *Executor) Delete(ctx context.Context, path string) ([]byte, error) {
	return e.Do(ctx, http.MethodDelete, path, nil, "")
}

// PostMultipart issues an authorized multipart upload. The body is encoded
// once up front so a post-refresh retry resends identical bytes.
func (e *Executor) PostMultipart(ctx context.Context, path string, files []FileUpload) ([]byte, error) {
	body, contentType, err := EncodeMultipart(files)
	if err != nil {
		return nil, err
	}
	return e.Do(ctx, http.MethodPost, path, body, contentType)
}

func (e *Executor) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = encodeJSON(payload)
		if err != nil {
			return nil, err
		}
	}
	return e.Do(ctx, method, path, body, contentTypeJSON)
}
