package activity

import (
	"context"
	"slices"
	"strings"
)

// DefaultChannel is used when neither the event nor Config names one.
const DefaultChannel = "settings"

// Config holds what the Emitter stamps onto events that leave it blank.
type Config struct {
	Enabled bool
	Channel string

	ActorID  string
	UserID   string
	TenantID string
}

// Emitter is the store's handle on activity hooks. A nil or disabled
// Emitter drops every event.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	hooks = slices.DeleteFunc(slices.Clone(hooks), func(hook ActivityHook) bool {
		return hook == nil
	})
	if !cfg.Enabled || len(hooks) == 0 {
		cfg.Enabled = false
	}
	return &Emitter{hooks: hooks, cfg: cfg}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled
}

// Emit fills blank channel and identity fields from Config and notifies
// every hook.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	fill(&event.Channel, e.cfg.Channel)
	fill(&event.ActorID, e.cfg.ActorID)
	fill(&event.UserID, e.cfg.UserID)
	fill(&event.TenantID, e.cfg.TenantID)
	return e.hooks.Notify(ctx, event)
}

func fill(field *string, fallback string) {
	if strings.TrimSpace(*field) == "" {
		*field = fallback
	}
}
