package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend is inconsistent about response envelopes: some deployments
// return the payload bare, others wrap it as {"data": ...}. The decoders
// below try the documented shapes in order and take the first structural
// match. This masks backend drift rather than reflecting a stable
// protocol, so keep the shapes covered by tests.

// DecodeObject decodes a single entity from either a bare object or a
// {"data": {...}} envelope.
func DecodeObject[T any](data []byte) (T, error) {
	var zero T

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Data) > 0 && !bytes.Equal(wrapped.Data, []byte("null")) {
		var v T
		if err := json.Unmarshal(wrapped.Data, &v); err == nil {
			return v, nil
		}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return v, nil
}

// DecodeList decodes a collection from either a bare JSON array or a
// {"data": [...]} envelope.
func DecodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return items, nil
	}

	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return wrapped.Data, nil
}
