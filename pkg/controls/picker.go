package controls

import (
	"context"
	"fmt"
	"slices"
)

// Choice is one row of an open picker.
type Choice struct {
	Value    string
	Selected bool
}

// Picker is a single-choice control. Picking an option commits it at once
// and closes the picker; there is no separate confirm step.
type Picker struct {
	title   string
	binding Binding[string]
	options []string
	phase   Phase
}

func NewPicker(title string, binding Binding[string], options []string) *Picker {
	return &Picker{
		title:   title,
		binding: binding,
		options: slices.Clone(options),
	}
}

func (p *Picker) Title() string   { return "Select " + p.title }
func (p *Picker) Label() string   { return p.title }
func (p *Picker) Phase() Phase    { return p.phase }
func (p *Picker) Value() string   { return p.binding.Value() }
func (p *Picker) Display() string { return p.binding.Value() }

func (p *Picker) Options() []string { return slices.Clone(p.options) }

func (p *Picker) Open() { p.phase = PhaseEditing }

func (p *Picker) Close() { p.phase = PhaseIdle }

// Choices lists every option and marks the committed one.
func (p *Picker) Choices() []Choice {
	current := p.binding.Value()
	choices := make([]Choice, 0, len(p.options))
	for _, option := range p.options {
		choices = append(choices, Choice{Value: option, Selected: option == current})
	}
	return choices
}

// Pick commits option. The picker must be open and option must be listed.
func (p *Picker) Pick(ctx context.Context, option string) error {
	if p.phase != PhaseEditing {
		return ErrNotEditing
	}
	if !slices.Contains(p.options, option) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	if err := p.binding.Commit(ctx, option); err != nil {
		return err
	}
	p.phase = PhaseIdle
	return nil
}
