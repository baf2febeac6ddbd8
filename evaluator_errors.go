package prefs

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError reports a rule that failed to compile, run or produce a
// usable value.
type EvaluationError struct {
	Engine Engine
	Expr   string
	Rule   string
	Err    error
}

func (e *EvaluationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "prefs: %s rule", e.Engine)
	if e.Rule != "" {
		fmt.Fprintf(&b, " %s", e.Rule)
	}
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// evaluationError annotates err with where it came from. When err already
// carries an EvaluationError only its empty fields are filled in.
func evaluationError(engine Engine, expr, rule string, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if !errors.As(err, &existing) {
		return &EvaluationError{Engine: engine, Expr: expr, Rule: rule, Err: err}
	}
	if existing.Engine == "" {
		existing.Engine = engine
	}
	if existing.Expr == "" {
		existing.Expr = expr
	}
	if existing.Rule == "" {
		existing.Rule = rule
	}
	return err
}
