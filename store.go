package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-storyprefs/pkg/activity"
	"github.com/goliatone/go-storyprefs/pkg/state"
)

// State is what a settings screen renders: a loading indicator while
// IsLoading, an error banner while Err is set, otherwise Settings.
type State struct {
	Settings  UserSettings
	IsLoading bool
	Err       error
}

// ErrorMessage returns the user facing text for Err, or "" when there is none.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	var opErr *OpError
	if errors.As(s.Err, &opErr) {
		return opErr.Message()
	}
	return "Settings operation failed"
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	key      string
	defaults UserSettings
	logger   *slog.Logger
	activity *activity.Emitter
	now      func() time.Time
}

// WithKey overrides the backend key (StorageKey by default).
func WithKey(key string) Option {
	return func(cfg *storeConfig) {
		if key != "" {
			cfg.key = key
		}
	}
}

// WithDefaults replaces the record used on first run, on reset and as the
// base of every load merge.
func WithDefaults(defaults UserSettings) Option {
	return func(cfg *storeConfig) {
		cfg.defaults = defaults.Clone()
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithActivity emits settings lifecycle events through emitter.
func WithActivity(emitter *activity.Emitter) Option {
	return func(cfg *storeConfig) {
		cfg.activity = emitter
	}
}

func WithClock(now func() time.Time) Option {
	return func(cfg *storeConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// Store is the single source of truth for UserSettings on one backend key.
// Mutations are serialized; reads never block on backend I/O.
type Store struct {
	backend  state.Backend
	key      string
	defaults UserSettings
	logger   *slog.Logger
	activity *activity.Emitter
	now      func() time.Time

	// writeMu is held for the whole of Load, Save, UpdateField, Reset and
	// Erase so read-modify-write sequences see each other's results.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current State
	subs    map[int]func(State)
	nextSub int
}

// NewStore binds a store to backend. The store starts at the defaults,
// not loading and without error; call Load to read the persisted record.
func NewStore(backend state.Backend, opts ...Option) *Store {
	cfg := storeConfig{
		key:      StorageKey,
		defaults: DefaultSettings(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Store{
		backend:  backend,
		key:      cfg.key,
		defaults: cfg.defaults,
		logger:   cfg.logger.With("component", "prefs.store", "key", cfg.key),
		activity: cfg.activity,
		now:      cfg.now,
		current:  State{Settings: cfg.defaults.Clone()},
		subs:     map[int]func(State){},
	}
}

// Key returns the backend key the store reads and writes.
func (s *Store) Key() string { return s.key }

// Defaults returns a copy of the store's default record.
func (s *Store) Defaults() UserSettings { return s.defaults.Clone() }

// State returns a detached snapshot of the observable state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.current)
}

// Settings returns a copy of the current record.
func (s *Store) Settings() UserSettings {
	return s.State().Settings
}

// Subscribe registers fn to receive every state transition. fn runs on the
// goroutine performing the operation and must not call back into mutating
// store methods.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Load reads and merges the persisted record. A missing key or an empty
// value leaves the defaults in place. Backend errors and malformed blobs reset the record to
// the defaults and are reported as ErrLoadFailed.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.update(func(st *State) { st.IsLoading = true })

	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return s.failLoad(err)
	}
	if !ok || raw == "" {
		s.logger.Debug("no stored settings, using defaults")
		s.set(State{Settings: s.defaults.Clone()})
		s.emit(ctx, activity.BuildSettingsLoadedEvent(s.eventInput(activity.SettingsEventInput{Defaulted: Fields()})))
		return nil
	}

	settings, defaulted, err := Decode(s.defaults, raw)
	if err != nil {
		return s.failLoad(err)
	}
	if len(defaulted) > 0 {
		s.logger.Debug("filled settings fields from defaults", "fields", defaulted)
	}

	s.set(State{Settings: settings})
	s.emit(ctx, activity.BuildSettingsLoadedEvent(s.eventInput(activity.SettingsEventInput{Defaulted: defaulted})))
	return nil
}

// Save validates and persists record in full. On failure the in-memory record
// is left as it was and the error is reported as ErrSaveFailed.
func (s *Store) Save(ctx context.Context, record UserSettings) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := record.Validate(); err != nil {
		return s.failSave(fmt.Errorf("%w: %w", ErrInvalidSettings, err))
	}
	return s.save(ctx, record, activity.BuildSettingsUpdatedEvent(s.eventInput(activity.SettingsEventInput{})))
}

// UpdateField replaces one field of the current record and saves the result.
// name is a serialized field name; see Fields. Only the changed field is
// validated.
func (s *Store) UpdateField(ctx context.Context, name string, value any) error {
	return s.mutate(ctx, name, func(current UserSettings) (UserSettings, error) {
		return WithField(current, name, value)
	})
}

// Update is the typed form of UpdateField.
func Update[V any](ctx context.Context, store *Store, key Key[V], value V) error {
	return store.mutate(ctx, key.Name(), func(current UserSettings) (UserSettings, error) {
		return key.With(current, value), nil
	})
}

// Reset saves the defaults over the stored record.
func (s *Store) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	defaults := s.defaults.Clone()
	if err := defaults.Validate(); err != nil {
		return s.failSave(fmt.Errorf("%w: %w", ErrInvalidSettings, err))
	}
	return s.save(ctx, defaults, activity.BuildSettingsResetEvent(s.eventInput(activity.SettingsEventInput{})))
}

// Erase removes the stored record. The in-memory record returns to the
// defaults even when the backend delete fails.
func (s *Store) Erase(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.backend.Remove(ctx, s.key); err != nil {
		opErr := &OpError{Op: OpErase, Key: s.key, Err: err}
		s.logger.Error("erase settings failed", "error", err)
		s.set(State{Settings: s.defaults.Clone(), Err: opErr})
		return opErr
	}

	s.set(State{Settings: s.defaults.Clone()})
	s.emit(ctx, activity.BuildSettingsErasedEvent(s.eventInput(activity.SettingsEventInput{})))
	return nil
}

func (s *Store) mutate(ctx context.Context, field string, apply func(UserSettings) (UserSettings, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Settings()
	next, err := apply(current)
	if err != nil {
		return s.failSave(err)
	}

	if err := next.ValidateField(field); err != nil {
		return s.failSave(fmt.Errorf("%w: %w", ErrInvalidSettings, err))
	}

	event := activity.BuildSettingsUpdatedEvent(s.eventInput(activity.SettingsEventInput{
		Field:    field,
		OldValue: current.Snapshot()[field],
		NewValue: next.Snapshot()[field],
	}))
	return s.save(ctx, next, event)
}

// save persists record without validating it; callers validate what they
// changed.
func (s *Store) save(ctx context.Context, record UserSettings, event activity.Event) error {
	blob, err := Serialize(record)
	if err != nil {
		return s.failSave(err)
	}
	if err := s.backend.Set(ctx, s.key, blob); err != nil {
		return s.failSave(err)
	}

	s.set(State{Settings: record.Clone()})
	s.emit(ctx, event)
	return nil
}

func (s *Store) failLoad(err error) error {
	opErr := &OpError{Op: OpLoad, Key: s.key, Err: err}
	s.logger.Error("load settings failed, using defaults", "error", err)
	s.set(State{Settings: s.defaults.Clone(), Err: opErr})
	return opErr
}

func (s *Store) failSave(err error) error {
	opErr := &OpError{Op: OpSave, Key: s.key, Err: err}
	s.logger.Error("save settings failed", "error", err)
	s.update(func(st *State) {
		st.IsLoading = false
		st.Err = opErr
	})
	return opErr
}

func (s *Store) set(next State) {
	s.update(func(st *State) { *st = next })
}

func (s *Store) update(apply func(*State)) {
	s.mu.Lock()
	apply(&s.current)
	snapshot := cloneState(s.current)
	subs := make([]func(State), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(cloneState(snapshot))
	}
}

func (s *Store) eventInput(input activity.SettingsEventInput) activity.SettingsEventInput {
	input.Key = s.key
	input.OccurredAt = s.now()
	return input
}

func (s *Store) emit(ctx context.Context, event activity.Event) {
	if !s.activity.Enabled() {
		return
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("settings activity hook failed", "verb", event.Verb, "error", err)
	}
}

func cloneState(st State) State {
	st.Settings = st.Settings.Clone()
	return st
}
