package prefs

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a helper callable from rule expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds rule helpers. Names are case insensitive. Every
// engine reaches them through call(name, args...); expr and js also bind
// each helper under its own name.
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{funcs: map[string]Function{}}
}

// DefaultFunctions registers trim(s), lower(s) and contains(list, item).
func DefaultFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	r.mustRegister("trim", stringFunc("trim", strings.TrimSpace))
	r.mustRegister("lower", stringFunc("lower", strings.ToLower))
	r.mustRegister("contains", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("prefs: contains takes 2 arguments, got %d", len(args))
		}
		item, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("prefs: contains item must be a string, got %T", args[1])
		}
		return slices.Contains(toStrings(args[0]), item), nil
	})
	return r
}

// Register adds fn under name. Names already taken are rejected.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return fmt.Errorf("prefs: function name is empty")
	case fn == nil:
		return fmt.Errorf("prefs: function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs == nil {
		r.funcs = map[string]Function{}
	}
	if _, taken := r.funcs[key]; taken {
		return fmt.Errorf("prefs: function %q already registered", name)
	}
	r.funcs[key] = fn
	return nil
}

func (r *FunctionRegistry) mustRegister(name string, fn Function) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Clone returns an independent registry with the same functions.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{funcs: maps.Clone(r.funcs)}
}

func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("prefs: no functions registered")
	}
	r.mu.RLock()
	fn, ok := r.funcs[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("prefs: unknown function %q", name)
	}
	return fn(args...)
}

// Names lists registered names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.funcs))
}

func stringFunc(name string, fn func(string) string) Function {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("prefs: %s takes 1 argument, got %d", name, len(args))
		}
		value, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("prefs: %s argument must be a string, got %T", name, args[0])
		}
		return fn(value), nil
	}
}

// toStrings accepts the list shapes rule engines hand back: []string from
// snapshots and []any from literals.
func toStrings(value any) []string {
	switch list := value.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
