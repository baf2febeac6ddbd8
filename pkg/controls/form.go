package controls

import (
	prefs "github.com/goliatone/go-storyprefs"
)

// Form holds the controls of the settings screen, bound to one store.
type Form struct {
	Language    *Picker
	Length      *Picker
	ChildName   *TextInput
	Themes      *MultiSelect
	CustomTheme *TextInput
	Topics      *MultiSelect
	CustomTopic *TextInput
}

// FormOption configures NewForm.
type FormOption func(*formConfig)

type formConfig struct {
	themeLimit int
	topicLimit int
}

// WithSelectionLimits caps the theme and topic selections. 0 is unlimited.
func WithSelectionLimits(themes, topics int) FormOption {
	return func(cfg *formConfig) {
		cfg.themeLimit = themes
		cfg.topicLimit = topics
	}
}

// NewForm builds the seven settings controls. Theme and topic items come
// from the catalog against the store's current record, so a custom value
// becomes selectable as soon as it is saved.
func NewForm(store *prefs.Store, catalog *prefs.Catalog, opts ...FormOption) *Form {
	cfg := formConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Form{
		Language:  NewPicker("Language", prefs.Bind(store, prefs.Language), catalog.Languages()),
		Length:    NewPicker("Default Story Length", prefs.Bind(store, prefs.DefaultLength), catalog.Lengths()),
		ChildName: NewTextInput("Child's Name", prefs.Bind(store, prefs.ChildName), prefs.MaxLength(prefs.FieldChildName)),
		Themes: NewMultiSelect("Preferred Themes", prefs.Bind(store, prefs.SelectedThemes), func() ([]string, error) {
			return catalog.AvailableThemes(store.Settings())
		}, cfg.themeLimit),
		CustomTheme: NewTextInput("Add Custom Theme", prefs.Bind(store, prefs.CustomTheme), prefs.MaxLength(prefs.FieldCustomTheme)),
		Topics: NewMultiSelect("Favorite Topics", prefs.Bind(store, prefs.SelectedTopics), func() ([]string, error) {
			return catalog.AvailableTopics(store.Settings())
		}, cfg.topicLimit),
		CustomTopic: NewTextInput("Add Custom Topic", prefs.Bind(store, prefs.CustomTopic), prefs.MaxLength(prefs.FieldCustomTopic)),
	}
}
