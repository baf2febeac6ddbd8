package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-storyprefs/pkg/activity"
	"github.com/goliatone/go-storyprefs/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsSettingsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()
	tenantID := uuid.New()

	event := activity.BuildSettingsUpdatedEvent(activity.SettingsEventInput{
		Key:        "bedtime_story_settings",
		Field:      "childName",
		OldValue:   "",
		NewValue:   "Mia",
		OccurredAt: now,
	})
	event.ActorID = actorID.String()
	event.UserID = userID.String()
	event.TenantID = tenantID.String()
	event.Channel = "settings"

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != userID || record.TenantID != tenantID {
		t.Fatalf("unexpected identity mapping: %+v", record)
	}
	if record.Verb != activity.VerbSettingsUpdated || record.ObjectType != "settings" || record.ObjectID != "bedtime_story_settings" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "settings" {
		t.Fatalf("expected channel settings got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["field"] != "childName" || record.Data["new_value"] != "Mia" {
		t.Fatalf("expected field change in data, got %v", record.Data)
	}
}

func TestHookNotifySkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{Verb: activity.VerbSettingsReset}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records for incomplete event, got %d", len(sink.records))
	}

	if err := (usersink.Hook{}).Notify(context.Background(), activity.BuildSettingsResetEvent(activity.SettingsEventInput{})); err != nil {
		t.Fatalf("expected nil sink to be a no-op, got %v", err)
	}
}

func TestHookNotifyInvalidIDs(t *testing.T) {
	event := activity.BuildSettingsErasedEvent(activity.SettingsEventInput{Key: "k"})
	event.UserID = "not-a-uuid"

	lenient := &recordingSink{}
	if err := (usersink.Hook{Sink: lenient}).Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(lenient.records) != 1 || lenient.records[0].UserID != uuid.Nil {
		t.Fatalf("expected nil user id recorded, got %+v", lenient.records)
	}
	if lenient.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}

	strict := &recordingSink{}
	err := (usersink.Hook{Sink: strict, Strict: true}).Notify(context.Background(), event)
	if err == nil {
		t.Fatalf("expected strict hook to reject malformed id")
	}
	if len(strict.records) != 0 {
		t.Fatalf("expected nothing logged on strict failure")
	}
}

func TestHookNotifyPropagatesSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}

	err := hook.Notify(context.Background(), activity.BuildSettingsLoadedEvent(activity.SettingsEventInput{Key: "k"}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
