package session

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenEnvelope covers every shape the backend has used for token
// responses: top-level access_token or token, and the same two nested
// under data.
type tokenEnvelope struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	Data        struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

// tokenFields is the ordered list of extraction strategies; the first
// non-empty match wins. The order matches the backend's historical
// preference, not any documented contract.
var tokenFields = []func(tokenEnvelope) string{
	func(e tokenEnvelope) string { return e.AccessToken },
	func(e tokenEnvelope) string { return e.Token },
	func(e tokenEnvelope) string { return e.Data.Token },
	func(e tokenEnvelope) string { return e.Data.AccessToken },
}

// ExtractToken pulls an access token out of a login or refresh response
// body and normalizes it. Returns ErrMalformedToken when no usable string
// token is present.
func ExtractToken(data []byte) (string, error) {
	var env tokenEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	for _, field := range tokenFields {
		raw := field(env)
		if raw == "" {
			continue
		}
		token := NormalizeToken(raw)
		if token == "" {
			return "", ErrMalformedToken
		}
		return token, nil
	}
	return "", ErrMalformedToken
}

var bearerPrefix = regexp.MustCompile(`(?i)^bearer\s+`)

// NormalizeToken strips surrounding whitespace and an optional leading
// "Bearer " scheme prefix (any case). Idempotent.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	token = bearerPrefix.ReplaceAllString(token, "")
	return strings.TrimSpace(token)
}

// TokenExpiry reports the exp claim of a JWT access token without
// verifying its signature. Display and logging only; expiry never gates a
// request — the server's 401 does.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
