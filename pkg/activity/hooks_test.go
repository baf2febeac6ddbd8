package activity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"field": "childName", "defaulted": []string{"language"}}
	evt := Event{
		Verb:       " settings.updated ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " settings ",
		ObjectID:   " bedtime_story_settings ",
		Channel:    " settings ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "settings.updated" || got.ObjectType != "settings" || got.ObjectID != "bedtime_story_settings" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "settings" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["field"] = "changed"
	got.Metadata["defaulted"].([]string)[0] = "changed"
	if meta["field"] != "childName" {
		t.Fatalf("expected original metadata untouched: %+v", meta)
	}
	if meta["defaulted"].([]string)[0] != "language" {
		t.Fatalf("expected original metadata list untouched: %+v", meta["defaulted"])
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{Verb: VerbSettingsReset}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events()))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbSettingsUpdated, ObjectType: ObjectTypeSettings, ObjectID: "k"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !strings.Contains(err.Error(), "activity: hook 2: boom1") || !strings.Contains(err.Error(), "activity: hook 4: boom2") {
		t.Fatalf("expected hook positions in error, got %q", err.Error())
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events()) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events()))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}
	event := Event{Verb: VerbSettingsLoaded, ObjectType: ObjectTypeSettings, ObjectID: "k"}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events()) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("expected nil emitter to be disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true, UserID: "u-1"})
	if err := enabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(events))
	}
	if events[0].Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", events[0].Channel)
	}
	if events[0].UserID != "u-1" {
		t.Fatalf("expected configured user applied, got %q", events[0].UserID)
	}
}

func TestEmitterPreservesExplicitFields(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default", UserID: "u-1"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbSettingsErased,
		ObjectType: ObjectTypeSettings,
		ObjectID:   "k",
		Channel:    "custom",
		UserID:     "u-2",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := capture.Events()[0]
	if got.Channel != "custom" || got.UserID != "u-2" {
		t.Fatalf("expected explicit fields preserved, got %+v", got)
	}
	if !got.OccurredAt.Equal(at) {
		t.Fatalf("expected occurred_at preserved, got %v", got.OccurredAt)
	}
}

func TestEmitterWithoutHooksIsDisabled(t *testing.T) {
	emitter := NewEmitter(Hooks{nil, nil}, Config{Enabled: true})
	if emitter.Enabled() {
		t.Fatalf("expected emitter without hooks to be disabled")
	}
}
