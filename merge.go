package prefs

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-storyprefs/internal/hydrate"
	"github.com/goliatone/go-storyprefs/layering"
)

// settingsPatch mirrors UserSettings with nil meaning "not present".
type settingsPatch struct {
	Language       *string  `json:"language"`
	DefaultLength  *string  `json:"defaultLength"`
	SelectedThemes []string `json:"selectedThemes"`
	SelectedTopics []string `json:"selectedTopics"`
	CustomTheme    *string  `json:"customTheme"`
	CustomTopic    *string  `json:"customTopic"`
	ChildName      *string  `json:"childName"`
}

var patchDecoder = hydrate.NewDecoder[settingsPatch]("settings")

func patchFrom(s UserSettings) settingsPatch {
	s = s.Clone()
	return settingsPatch{
		Language:       &s.Language,
		DefaultLength:  &s.DefaultLength,
		SelectedThemes: s.SelectedThemes,
		SelectedTopics: s.SelectedTopics,
		CustomTheme:    &s.CustomTheme,
		CustomTopic:    &s.CustomTopic,
		ChildName:      &s.ChildName,
	}
}

func (p settingsPatch) settings() UserSettings {
	return UserSettings{
		Language:       deref(p.Language),
		DefaultLength:  deref(p.DefaultLength),
		SelectedThemes: cloneStrings(p.SelectedThemes),
		SelectedTopics: cloneStrings(p.SelectedTopics),
		CustomTheme:    deref(p.CustomTheme),
		CustomTopic:    deref(p.CustomTopic),
		ChildName:      deref(p.ChildName),
	}
}

// missing lists the fields the patch does not carry, in schema order.
func (p settingsPatch) missing() []string {
	present := map[string]bool{
		FieldLanguage:       p.Language != nil,
		FieldDefaultLength:  p.DefaultLength != nil,
		FieldSelectedThemes: p.SelectedThemes != nil,
		FieldSelectedTopics: p.SelectedTopics != nil,
		FieldCustomTheme:    p.CustomTheme != nil,
		FieldCustomTopic:    p.CustomTopic != nil,
		FieldChildName:      p.ChildName != nil,
	}
	var out []string
	for _, name := range fieldOrder {
		if !present[name] {
			out = append(out, name)
		}
	}
	return out
}

// Merge overlays partial on defaults. Keys present in partial win, absent or
// null keys keep the default and unknown keys are ignored. A known key holding
// the wrong JSON type yields ErrMalformedSettings.
func Merge(defaults UserSettings, partial map[string]any) (UserSettings, error) {
	merged, _, err := merge(defaults, partial)
	return merged, err
}

func merge(defaults UserSettings, partial map[string]any) (UserSettings, []string, error) {
	patch, err := patchDecoder.Decode(knownFields(partial))
	if err != nil {
		var fieldErr *hydrate.FieldError
		if errors.As(err, &fieldErr) {
			return defaults.Clone(), nil, fmt.Errorf("%w: %v", ErrMalformedSettings, fieldErr)
		}
		return defaults.Clone(), nil, fmt.Errorf("%w: %v", ErrMalformedSettings, err)
	}
	merged := layering.MergeLayers(patch, patchFrom(defaults))
	return merged.settings(), patch.missing(), nil
}

// knownFields keeps only keys that exactly match a serialized field name.
// The JSON decoder matches names case-insensitively, so "LANGUAGE" would
// otherwise be read as language.
func knownFields(partial map[string]any) map[string]any {
	if partial == nil {
		return nil
	}
	out := make(map[string]any, len(fieldOrder))
	for _, name := range fieldOrder {
		if value, ok := partial[name]; ok {
			out[name] = value
		}
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
