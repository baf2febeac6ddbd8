package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Serialize encodes the full record as a flat JSON object with all seven keys.
func Serialize(s UserSettings) (string, error) {
	payload, err := json.Marshal(s.Clone())
	if err != nil {
		return "", fmt.Errorf("prefs: encode settings: %w", err)
	}
	return string(payload), nil
}

// Deserialize parses a stored blob into a loosely typed object. A JSON null
// yields an empty object; any other non-object value is malformed.
func Deserialize(blob string) (map[string]any, error) {
	var raw any
	decoder := json.NewDecoder(bytes.NewReader([]byte(blob)))
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data after settings object", ErrMalformedSettings)
	}

	switch typed := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return typed, nil
	default:
		return nil, fmt.Errorf("%w: expected object, got %T", ErrMalformedSettings, raw)
	}
}

// Decode deserializes blob and merges it over defaults. It also reports the
// fields that were absent from the blob and therefore took their default.
func Decode(defaults UserSettings, blob string) (UserSettings, []string, error) {
	partial, err := Deserialize(blob)
	if err != nil {
		return defaults.Clone(), nil, err
	}
	return merge(defaults, partial)
}
