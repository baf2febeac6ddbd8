package controls

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxLength = 50
	// displayLimit is the number of runes shown before the value is elided.
	displayLimit = 30
)

// TextInput edits a free-text setting bounded by a rune limit.
type TextInput struct {
	title     string
	binding   Binding[string]
	maxLength int

	phase Phase
	draft string
}

// NewTextInput builds a text input. maxLength <= 0 uses DefaultMaxLength.
func NewTextInput(title string, binding Binding[string], maxLength int) *TextInput {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &TextInput{
		title:     title,
		binding:   binding,
		maxLength: maxLength,
	}
}

func (t *TextInput) Label() string  { return t.title }
func (t *TextInput) Phase() Phase   { return t.phase }
func (t *TextInput) MaxLength() int { return t.maxLength }
func (t *TextInput) Draft() string  { return t.draft }

// Open starts editing from the committed value.
func (t *TextInput) Open() {
	t.draft = truncateRunes(t.binding.Value(), t.maxLength)
	t.phase = PhaseEditing
}

// SetDraft replaces the draft, dropping runes past the limit.
func (t *TextInput) SetDraft(value string) error {
	if t.phase != PhaseEditing {
		return ErrNotEditing
	}
	t.draft = truncateRunes(value, t.maxLength)
	return nil
}

// Clear empties the draft. Nothing is committed until Save.
func (t *TextInput) Clear() error {
	return t.SetDraft("")
}

// Save trims the draft and commits it. An empty result clears the setting.
func (t *TextInput) Save(ctx context.Context) error {
	if t.phase != PhaseEditing {
		return ErrNotEditing
	}
	if err := t.binding.Commit(ctx, strings.TrimSpace(t.draft)); err != nil {
		return err
	}
	t.phase = PhaseIdle
	t.draft = ""
	return nil
}

// Cancel discards the draft.
func (t *TextInput) Cancel() {
	t.phase = PhaseIdle
	t.draft = ""
}

// Counter shows the draft length against the limit, e.g. "4/30".
func (t *TextInput) Counter() string {
	return fmt.Sprintf("%d/%d", utf8.RuneCountInString(t.draft), t.maxLength)
}

// Display renders the committed value for the collapsed row.
func (t *TextInput) Display() string {
	return SummarizeText(t.binding.Value())
}

// SummarizeText renders "Not set" for blank values and elides long ones.
func SummarizeText(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not set"
	}
	if utf8.RuneCountInString(value) > displayLimit {
		return truncateRunes(value, displayLimit) + "..."
	}
	return value
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}
