// Package state defines the durable key-value contract the settings store
// persists through, plus the backends shipped with the module.
//
// Responsibilities:
//   - Backend only gets, sets and removes opaque string values under string
//     keys. It knows nothing about the settings schema.
//   - Serialization, default merging and validation stay in the prefs
//     package; a Backend never interprets the stored value.
//
// Backends:
//
//	MemoryBackend  in-process map, used by tests and the "memory" config
//	FileBackend    one file per key under a directory, atomic replace
//	SQLiteBackend  kv table with upsert, pure-Go driver by default
//
// Build with -tags sqlite_cgo to use github.com/mattn/go-sqlite3 instead of
// modernc.org/sqlite.
package state
