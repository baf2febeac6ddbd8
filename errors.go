package prefs

import (
	"errors"
	"fmt"
)

var (
	ErrLoadFailed  = errors.New("prefs: load failed")
	ErrSaveFailed  = errors.New("prefs: save failed")
	ErrEraseFailed = errors.New("prefs: erase failed")

	// ErrMalformedSettings marks a stored blob that is not a settings object
	// or holds a known key with the wrong JSON type.
	ErrMalformedSettings = errors.New("prefs: malformed settings")
	ErrInvalidSettings   = errors.New("prefs: invalid settings")
	ErrUnknownField      = errors.New("prefs: unknown field")
	ErrFieldType         = errors.New("prefs: wrong value type for field")
)

// Op names the store operation that failed.
type Op string

const (
	OpLoad  Op = "load"
	OpSave  Op = "save"
	OpErase Op = "erase"
)

// OpError captures the failing operation and storage key alongside the cause.
// It matches ErrLoadFailed, ErrSaveFailed or ErrEraseFailed through errors.Is
// depending on Op.
type OpError struct {
	Op  Op
	Key string
	Err error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("prefs: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrLoadFailed:
		return e.Op == OpLoad
	case ErrSaveFailed:
		return e.Op == OpSave
	case ErrEraseFailed:
		return e.Op == OpErase
	}
	return false
}

// Message is the user facing text for the failed operation.
func (e *OpError) Message() string {
	if e == nil {
		return ""
	}
	switch e.Op {
	case OpLoad:
		return "Failed to load settings"
	case OpSave:
		return "Failed to save settings"
	case OpErase:
		return "Failed to clear settings"
	}
	return "Settings operation failed"
}
