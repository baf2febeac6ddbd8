package prefs

import "context"

// FieldBinding ties one field of a Store to a control. Value reads the
// committed value and Commit persists a new one through the store.
type FieldBinding[V any] struct {
	store *Store
	key   Key[V]
}

// Bind returns a binding for key on store.
func Bind[V any](store *Store, key Key[V]) FieldBinding[V] {
	return FieldBinding[V]{store: store, key: key}
}

func (b FieldBinding[V]) Name() string { return b.key.Name() }

func (b FieldBinding[V]) Value() V {
	return b.key.Get(b.store.Settings())
}

func (b FieldBinding[V]) Commit(ctx context.Context, value V) error {
	return Update(ctx, b.store, b.key, value)
}
