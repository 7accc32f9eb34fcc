package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestExtractTokenShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"top-level access_token", `{"access_token":"abc"}`, "abc"},
		{"top-level token", `{"token":"abc"}`, "abc"},
		{"nested data.token", `{"data":{"token":"abc"}}`, "abc"},
		{"nested data.access_token", `{"data":{"access_token":"abc"}}`, "abc"},
		{"access_token wins over token", `{"access_token":"first","token":"second"}`, "first"},
		{"scheme prefix stripped", `{"token":"Bearer abc"}`, "abc"},
		{"whitespace trimmed", `{"token":"  abc  "}`, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractToken([]byte(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.want, token)
		})
	}
}

func TestExtractTokenFailures(t *testing.T) {
	for name, body := range map[string]string{
		"empty object":      `{}`,
		"non-string token":  `{"token":123}`,
		"prefix only":       `{"token":"Bearer   "}`,
		"not json":          `nope`,
		"empty data object": `{"data":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractToken([]byte(body))
			require.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestNormalizeTokenIdempotent(t *testing.T) {
	variants := []string{"abc", " abc ", "Bearer abc", "BEARER  abc", "bearer abc "}
	for _, v := range variants {
		normalized := NormalizeToken(v)
		require.Equal(t, "abc", normalized)
		// Normalizing an already-normalized token is a no-op.
		require.Equal(t, normalized, NormalizeToken(normalized))
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	require.True(t, got.Equal(exp))

	_, ok = TokenExpiry("not-a-jwt")
	require.False(t, ok)
}
