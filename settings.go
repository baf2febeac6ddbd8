package prefs

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// StorageKey is the single backend key holding the serialized settings.
const StorageKey = "bedtime_story_settings"

const (
	MaxChildNameLength   = 30
	MaxCustomValueLength = 50
)

// Field names as they appear in the serialized object.
const (
	FieldLanguage       = "language"
	FieldDefaultLength  = "defaultLength"
	FieldSelectedThemes = "selectedThemes"
	FieldSelectedTopics = "selectedTopics"
	FieldCustomTheme    = "customTheme"
	FieldCustomTopic    = "customTopic"
	FieldChildName      = "childName"
)

// UserSettings is the one persisted record per installation.
type UserSettings struct {
	Language       string   `json:"language"`
	DefaultLength  string   `json:"defaultLength"`
	SelectedThemes []string `json:"selectedThemes" validate:"unique"`
	SelectedTopics []string `json:"selectedTopics" validate:"unique"`
	CustomTheme    string   `json:"customTheme" validate:"max=50,trimmed"`
	CustomTopic    string   `json:"customTopic" validate:"max=50,trimmed"`
	ChildName      string   `json:"childName" validate:"max=30,trimmed"`
}

// DefaultSettings returns a fresh copy of the first-run record.
func DefaultSettings() UserSettings {
	return UserSettings{
		Language:       "English",
		DefaultLength:  "5 minutes",
		SelectedThemes: []string{},
		SelectedTopics: []string{},
	}
}

// Clone returns a copy whose selections do not alias s.
func (s UserSettings) Clone() UserSettings {
	out := s
	out.SelectedThemes = cloneStrings(s.SelectedThemes)
	out.SelectedTopics = cloneStrings(s.SelectedTopics)
	return out
}

// Equal compares field by field. A nil selection equals an empty one.
func (s UserSettings) Equal(other UserSettings) bool {
	return s.Language == other.Language &&
		s.DefaultLength == other.DefaultLength &&
		slices.Equal(s.SelectedThemes, other.SelectedThemes) &&
		slices.Equal(s.SelectedTopics, other.SelectedTopics) &&
		s.CustomTheme == other.CustomTheme &&
		s.CustomTopic == other.CustomTopic &&
		s.ChildName == other.ChildName
}

// Snapshot exposes the record keyed by serialized field names.
func (s UserSettings) Snapshot() map[string]any {
	return map[string]any{
		FieldLanguage:       s.Language,
		FieldDefaultLength:  s.DefaultLength,
		FieldSelectedThemes: cloneStrings(s.SelectedThemes),
		FieldSelectedTopics: cloneStrings(s.SelectedTopics),
		FieldCustomTheme:    s.CustomTheme,
		FieldCustomTopic:    s.CustomTopic,
		FieldChildName:      s.ChildName,
	}
}

// Validate checks the write-time constraints. Language and length are only
// constrained by the catalog offered to the user, so they are not checked here.
func (s UserSettings) Validate() error {
	return settingsValidator().Struct(s)
}

// ValidateField checks the write-time constraints of one serialized field
// only, so a stored record that predates a rule does not block edits to
// unrelated fields.
func (s UserSettings) ValidateField(name string) error {
	structField, ok := structFields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return settingsValidator().StructPartial(s, structField)
}

var structFields = map[string]string{
	FieldLanguage:       "Language",
	FieldDefaultLength:  "DefaultLength",
	FieldSelectedThemes: "SelectedThemes",
	FieldSelectedTopics: "SelectedTopics",
	FieldCustomTheme:    "CustomTheme",
	FieldCustomTopic:    "CustomTopic",
	FieldChildName:      "ChildName",
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func settingsValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == strings.TrimSpace(value)
		})
	})
	return validate
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string{}, in...)
}
