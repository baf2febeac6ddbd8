package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FieldError reports a payload key whose value could not be decoded into the
// target type.
type FieldError struct {
	Source string
	Key    string
	Want   string
	Got    string
}

func (e *FieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("hydrate: %s key %q: expected %s, got %s", e.Source, e.Key, e.Want, e.Got)
}

// Decoder converts loosely typed payloads (parsed JSON objects) into T.
// Unknown keys are ignored so payloads written by newer versions still decode.
type Decoder[T any] struct {
	source string
}

// NewDecoder builds a decoder; source names the payload in error messages.
func NewDecoder[T any](source string) *Decoder[T] {
	return &Decoder[T]{source: source}
}

// Decode converts payload into T. A nil payload decodes to the zero value.
func (d *Decoder[T]) Decode(payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, nil
	}

	buffer, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal %s payload: %w", d.source, err)
	}

	var result T
	if err := json.NewDecoder(bytes.NewReader(buffer)).Decode(&result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return zero, &FieldError{
				Source: d.source,
				Key:    typeErr.Field,
				Want:   typeErr.Type.String(),
				Got:    typeErr.Value,
			}
		}
		return zero, fmt.Errorf("hydrate: decode %s payload: %w", d.source, err)
	}
	return result, nil
}
