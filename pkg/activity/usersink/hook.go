// Package usersink forwards settings activity into a go-users activity feed.
package usersink

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-storyprefs/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook is an activity.ActivityHook writing ActivityRecords to Sink.
type Hook struct {
	Sink usertypes.ActivitySink
	// Strict rejects events whose actor, user or tenant ID is not a UUID.
	// Otherwise such IDs are recorded as uuid.Nil.
	Strict bool
}

func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if event.Verb == "" || event.ObjectType == "" || event.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record := usertypes.ActivityRecord{
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       event.Metadata,
		OccurredAt: event.OccurredAt,
	}
	for _, id := range []struct {
		kind string
		raw  string
		dst  *uuid.UUID
	}{
		{"actor", event.ActorID, &record.ActorID},
		{"user", event.UserID, &record.UserID},
		{"tenant", event.TenantID, &record.TenantID},
	} {
		parsed, err := h.parseID(id.kind, id.raw)
		if err != nil {
			return err
		}
		*id.dst = parsed
	}
	return h.Sink.Log(ctx, record)
}

func (h Hook) parseID(kind, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	switch {
	case err == nil:
		return id, nil
	case h.Strict:
		return uuid.Nil, fmt.Errorf("usersink: %s id %q: %w", kind, raw, err)
	default:
		return uuid.Nil, nil
	}
}
