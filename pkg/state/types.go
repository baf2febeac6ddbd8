package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyKey = errors.New("state: key must not be empty")

var ErrUnknownBackend = errors.New("state: unknown backend")

// Backend is an asynchronous-style string key/value store scoped to one
// installation. Get reports ok=false when the key has never been written or
// was removed.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Kind names a Backend implementation in configuration.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// Open builds the backend named by kind. path is a directory for file
// backends and a database file for sqlite; it is ignored for memory.
func Open(kind Kind, path string) (Backend, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindMemory:
		return NewMemoryBackend(), nil
	case KindFile:
		return NewFileBackend(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

// Close releases backend resources when the implementation holds any.
func Close(b Backend) error {
	if closer, ok := b.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func checkKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
