// Package prefs keeps the bedtime-story user settings: one UserSettings
// record per installation, persisted as a single JSON object under one key of
// a state.Backend.
//
// A Store is bound to a backend at construction. Load merges the stored
// object over the defaults, so blobs written before a field existed still
// load as a complete record. Every mutation (Save, UpdateField, Update,
// Reset) validates and writes the whole record before the in-memory copy
// changes; Erase drops the key and returns to the defaults.
//
//	store := prefs.NewStore(state.NewMemoryBackend())
//	_ = store.Load(ctx)
//	_ = prefs.Update(ctx, store, prefs.ChildName, "Mia")
//
// The Catalog lists the options offered for each field. Availability of the
// custom theme and topic is decided by rules evaluated with expr (default),
// CEL, or JavaScript when built with the js_eval tag.
package prefs
