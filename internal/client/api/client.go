// Package api implements the HTTP transport for the CatClub platform API:
// a thin JSON/multipart client plus the authorized request executor that
// handles the refresh-and-retry-once protocol on authorization failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"time"
)

const contentTypeJSON = "application/json"

// Client issues requests against the platform's REST API. It knows nothing
// about sessions; callers pass the bearer token explicitly (or empty for
// anonymous endpoints such as login).
//
// The underlying http.Client carries a cookie jar so the refresh cookie the
// server sets at login accompanies POST /users/refresh.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the API rooted at baseURL
// (e.g. "http://localhost:8000/api/v1").
func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout, Jar: jar},
	}
}

// Do sends one request and returns the raw response body.
//
// Error mapping: transport failures return ErrUnavailable, a 401 returns
// ErrUnauthorized, other non-2xx statuses return a *StatusError. The body
// is returned as-is; decoding is the caller's concern.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, contentType, token string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// DoJSON marshals payload (if non-nil) and sends it as a JSON request.
func (c *Client) DoJSON(ctx context.Context, method, path string, payload any, token string) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = encodeJSON(payload)
		if err != nil {
			return nil, err
		}
	}
	return c.Do(ctx, method, path, body, contentTypeJSON, token)
}

func encodeJSON(payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return body, nil
}

// FileUpload is one file destined for a multipart request.
type FileUpload struct {
	Field string
	Name  string
	Data  []byte
}

// EncodeMultipart builds a multipart/form-data body from the given files
// and returns the body together with its content type.
func EncodeMultipart(files []FileUpload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("encoding upload %q: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("encoding upload %q: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encoding multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
