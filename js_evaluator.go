//go:build js_eval

package prefs

import (
	"fmt"

	"github.com/dop251/goja"
)

// JSEvaluator runs rules written as JavaScript expressions. Each evaluation
// gets a fresh runtime; compiled programs are shared through the cache.
type JSEvaluator struct {
	evaluatorConfig
}

func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	return &JSEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

func jsEvaluatorAvailable() bool { return true }

func (e *JSEvaluator) Engine() Engine { return EngineJS }

func (e *JSEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *JSEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, evaluationError(EngineJS, "", "", ErrEmptyExpression)
	}
	program, err := cachedProgram(e.cache, cacheKey(EngineJS, expression), func() (*goja.Program, error) {
		return goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	})
	if err != nil {
		return nil, evaluationError(EngineJS, expression, "", err)
	}

	return ruleFunc(func(ctx RuleContext) (any, error) {
		vm := goja.New()
		if err := e.bind(vm, ctx); err != nil {
			return nil, evaluationError(EngineJS, expression, ctx.ruleLabel(), err)
		}
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, evaluationError(EngineJS, expression, ctx.ruleLabel(), err)
		}
		return value.Export(), nil
	}), nil
}

func (e *JSEvaluator) bind(vm *goja.Runtime, ctx RuleContext) error {
	for name, value := range ctx.variables() {
		if err := vm.Set(name, value); err != nil {
			return err
		}
	}
	if e.funcs == nil {
		return nil
	}
	if err := vm.Set("call", e.call); err != nil {
		return err
	}
	for _, name := range e.funcs.Names() {
		helper := func(arguments ...any) (any, error) {
			return e.funcs.Call(name, arguments...)
		}
		if err := vm.Set(name, helper); err != nil {
			return err
		}
	}
	return nil
}
