package prefs

import (
	"fmt"
	"slices"
)

// Key is a typed handle on one UserSettings field.
type Key[V any] struct {
	name string
	get  func(UserSettings) V
	set  func(*UserSettings, V)
}

// Name returns the serialized field name.
func (k Key[V]) Name() string { return k.name }

// Get reads the field from s. Selections are returned as copies.
func (k Key[V]) Get(s UserSettings) V {
	return k.get(s.Clone())
}

// With returns a copy of s with the field replaced by value.
func (k Key[V]) With(s UserSettings, value V) UserSettings {
	out := s.Clone()
	k.set(&out, value)
	return out
}

var (
	Language = Key[string]{
		name: FieldLanguage,
		get:  func(s UserSettings) string { return s.Language },
		set:  func(s *UserSettings, v string) { s.Language = v },
	}
	DefaultLength = Key[string]{
		name: FieldDefaultLength,
		get:  func(s UserSettings) string { return s.DefaultLength },
		set:  func(s *UserSettings, v string) { s.DefaultLength = v },
	}
	SelectedThemes = Key[[]string]{
		name: FieldSelectedThemes,
		get:  func(s UserSettings) []string { return s.SelectedThemes },
		set:  func(s *UserSettings, v []string) { s.SelectedThemes = cloneStrings(v) },
	}
	SelectedTopics = Key[[]string]{
		name: FieldSelectedTopics,
		get:  func(s UserSettings) []string { return s.SelectedTopics },
		set:  func(s *UserSettings, v []string) { s.SelectedTopics = cloneStrings(v) },
	}
	CustomTheme = Key[string]{
		name: FieldCustomTheme,
		get:  func(s UserSettings) string { return s.CustomTheme },
		set:  func(s *UserSettings, v string) { s.CustomTheme = v },
	}
	CustomTopic = Key[string]{
		name: FieldCustomTopic,
		get:  func(s UserSettings) string { return s.CustomTopic },
		set:  func(s *UserSettings, v string) { s.CustomTopic = v },
	}
	ChildName = Key[string]{
		name: FieldChildName,
		get:  func(s UserSettings) string { return s.ChildName },
		set:  func(s *UserSettings, v string) { s.ChildName = v },
	}
)

var fieldOrder = []string{
	FieldLanguage,
	FieldDefaultLength,
	FieldSelectedThemes,
	FieldSelectedTopics,
	FieldCustomTheme,
	FieldCustomTopic,
	FieldChildName,
}

// Fields lists the serialized field names in schema order.
func Fields() []string {
	return slices.Clone(fieldOrder)
}

type fieldSetter func(*UserSettings, any) error

var fieldSetters = map[string]fieldSetter{
	FieldLanguage:       stringSetter(Language),
	FieldDefaultLength:  stringSetter(DefaultLength),
	FieldSelectedThemes: listSetter(SelectedThemes),
	FieldSelectedTopics: listSetter(SelectedTopics),
	FieldCustomTheme:    stringSetter(CustomTheme),
	FieldCustomTopic:    stringSetter(CustomTopic),
	FieldChildName:      stringSetter(ChildName),
}

// WithField applies a dynamically typed value to the named field.
func WithField(s UserSettings, name string, value any) (UserSettings, error) {
	setter, ok := fieldSetters[name]
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	out := s.Clone()
	if err := setter(&out, value); err != nil {
		return s, err
	}
	return out, nil
}

func stringSetter(key Key[string]) fieldSetter {
	return func(s *UserSettings, value any) error {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", ErrFieldType, key.name, value)
		}
		key.set(s, str)
		return nil
	}
}

func listSetter(key Key[[]string]) fieldSetter {
	return func(s *UserSettings, value any) error {
		switch typed := value.(type) {
		case []string:
			key.set(s, typed)
			return nil
		case []any:
			items := make([]string, 0, len(typed))
			for _, item := range typed {
				str, ok := item.(string)
				if !ok {
					return fmt.Errorf("%w: %s expects string items, got %T", ErrFieldType, key.name, item)
				}
				items = append(items, str)
			}
			key.set(s, items)
			return nil
		case nil:
			key.set(s, nil)
			return nil
		default:
			return fmt.Errorf("%w: %s expects []string, got %T", ErrFieldType, key.name, value)
		}
	}
}
