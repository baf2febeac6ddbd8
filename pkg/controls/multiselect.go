package controls

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// ItemSource returns the items that may currently be added to a selection.
type ItemSource func() ([]string, error)

// StaticItems is an ItemSource over a fixed list.
func StaticItems(items ...string) ItemSource {
	items = slices.Clone(items)
	return func() ([]string, error) { return slices.Clone(items), nil }
}

// MultiSelect edits a list selection through a draft that is committed as a
// whole on Confirm.
type MultiSelect struct {
	title   string
	binding Binding[[]string]
	source  ItemSource
	limit   int

	phase Phase
	draft []string
	items []string
}

// NewMultiSelect builds a multi-select. limit caps the number of selected
// items; 0 means unlimited.
func NewMultiSelect(title string, binding Binding[[]string], source ItemSource, limit int) *MultiSelect {
	if source == nil {
		source = StaticItems()
	}
	if limit < 0 {
		limit = 0
	}
	return &MultiSelect{
		title:   title,
		binding: binding,
		source:  source,
		limit:   limit,
	}
}

func (m *MultiSelect) Label() string { return m.title }
func (m *MultiSelect) Phase() Phase  { return m.phase }
func (m *MultiSelect) Limit() int    { return m.limit }

// Title includes the running count when the selection is capped.
func (m *MultiSelect) Title() string {
	if m.limit == 0 {
		return "Select " + m.title
	}
	count := len(m.binding.Value())
	if m.phase == PhaseEditing {
		count = len(m.draft)
	}
	return fmt.Sprintf("Select %s (%d/%d)", m.title, count, m.limit)
}

// Open copies the committed selection into a draft and snapshots the
// available items.
func (m *MultiSelect) Open() error {
	items, err := m.source()
	if err != nil {
		return err
	}
	m.items = slices.Clone(items)
	m.draft = slices.Clone(m.binding.Value())
	if m.draft == nil {
		m.draft = []string{}
	}
	m.phase = PhaseEditing
	return nil
}

// Items returns the items offered while editing.
func (m *MultiSelect) Items() []string { return slices.Clone(m.items) }

// Draft returns the pending selection.
func (m *MultiSelect) Draft() []string { return slices.Clone(m.draft) }

func (m *MultiSelect) Selected(item string) bool {
	return slices.Contains(m.draft, item)
}

// CanSelect reports whether toggling item would change the draft. Removal is
// always possible; additions need an available item and room under the cap.
func (m *MultiSelect) CanSelect(item string) bool {
	if m.phase != PhaseEditing {
		return false
	}
	if slices.Contains(m.draft, item) {
		return true
	}
	if !slices.Contains(m.items, item) {
		return false
	}
	return m.limit == 0 || len(m.draft) < m.limit
}

// Toggle flips item in the draft and reports whether the draft changed.
func (m *MultiSelect) Toggle(item string) bool {
	if !m.CanSelect(item) {
		return false
	}
	if i := slices.Index(m.draft, item); i >= 0 {
		m.draft = slices.Delete(m.draft, i, i+1)
		return true
	}
	m.draft = append(m.draft, item)
	return true
}

// Confirm commits the draft as the full selection.
func (m *MultiSelect) Confirm(ctx context.Context) error {
	if m.phase != PhaseEditing {
		return ErrNotEditing
	}
	if err := m.binding.Commit(ctx, slices.Clone(m.draft)); err != nil {
		return err
	}
	m.reset()
	return nil
}

// Cancel drops the draft; the committed selection is untouched.
func (m *MultiSelect) Cancel() {
	m.reset()
}

// Display summarizes the committed selection for the collapsed row.
func (m *MultiSelect) Display() string {
	return SummarizeSelection(m.binding.Value())
}

func (m *MultiSelect) reset() {
	m.phase = PhaseIdle
	m.draft = nil
	m.items = nil
}

// SummarizeSelection renders a selection the way the collapsed row shows it.
func SummarizeSelection(items []string) string {
	switch {
	case len(items) == 0:
		return "None selected"
	case len(items) == 1:
		return items[0]
	case len(items) <= 3:
		return strings.Join(items, ", ")
	default:
		return fmt.Sprintf("%d selected", len(items))
	}
}
