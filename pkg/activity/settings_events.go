package activity

import (
	"strings"
	"time"
)

const (
	VerbSettingsLoaded  = "settings.loaded"
	VerbSettingsUpdated = "settings.updated"
	VerbSettingsReset   = "settings.reset"
	VerbSettingsErased  = "settings.erased"

	// ObjectTypeSettings is the object type of every settings event.
	ObjectTypeSettings = "settings"
)

// SettingsEventInput describes the fields shared by settings lifecycle events.
type SettingsEventInput struct {
	// Key is the storage key of the record; it becomes the object ID.
	Key        string
	Field      string
	OldValue   any
	NewValue   any
	Defaulted  []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildSettingsLoadedEvent records a load. Defaulted lists fields absent from
// the stored blob.
func BuildSettingsLoadedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsLoaded, input)
}

// BuildSettingsUpdatedEvent records a committed change. When Field is set the
// old and new values of that field are attached.
func BuildSettingsUpdatedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsUpdated, input)
}

func BuildSettingsResetEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsReset, input)
}

func BuildSettingsErasedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent(VerbSettingsErased, input)
}

func buildSettingsEvent(verb string, input SettingsEventInput) Event {
	metadata := cloneMetadata(input.Metadata)
	if field := strings.TrimSpace(input.Field); field != "" {
		metadata = ensureMetadata(metadata)
		metadata["field"] = field
		metadata["old_value"] = input.OldValue
		metadata["new_value"] = input.NewValue
	}
	if len(input.Defaulted) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["defaulted"] = append([]string{}, input.Defaulted...)
	}

	objectID := strings.TrimSpace(input.Key)
	if objectID == "" {
		objectID = ObjectTypeSettings
	}

	return Event{
		Verb:       verb,
		ObjectType: ObjectTypeSettings,
		ObjectID:   objectID,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
