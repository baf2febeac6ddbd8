package controls

import (
	"context"
	"errors"
)

var (
	ErrNotEditing    = errors.New("controls: control is not open for editing")
	ErrUnknownOption = errors.New("controls: unknown option")
)

// Binding connects a control to the committed value of one setting.
type Binding[V any] interface {
	Value() V
	Commit(ctx context.Context, value V) error
}

// Phase is the state of a control.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEditing:
		return "editing"
	default:
		return "unknown"
	}
}
