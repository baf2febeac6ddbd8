package prefs

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluator runs rules written in expr-lang. Unknown identifiers
// evaluate to nil instead of failing compilation, so rules may reference
// snapshot keys that a given record does not carry.
type ExprEvaluator struct {
	evaluatorConfig
}

func NewExprEvaluator(opts ...EvaluatorOption) *ExprEvaluator {
	return &ExprEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

func (e *ExprEvaluator) Engine() Engine { return EngineExpr }

func (e *ExprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *ExprEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, evaluationError(EngineExpr, "", "", ErrEmptyExpression)
	}
	program, err := cachedProgram(e.cache, cacheKey(EngineExpr, expression), func() (*exprvm.Program, error) {
		return exprlang.Compile(expression, e.compileOptions()...)
	})
	if err != nil {
		return nil, evaluationError(EngineExpr, expression, "", err)
	}

	return ruleFunc(func(ctx RuleContext) (any, error) {
		out, err := exprlang.Run(program, ctx.variables())
		if err != nil {
			return nil, evaluationError(EngineExpr, expression, ctx.ruleLabel(), err)
		}
		return out, nil
	}), nil
}

func (e *ExprEvaluator) compileOptions() []exprlang.Option {
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	if e.funcs == nil {
		return options
	}
	options = append(options, exprlang.Function("call", e.call))
	for _, name := range e.funcs.Names() {
		options = append(options, exprlang.Function(name, func(params ...any) (any, error) {
			return e.funcs.Call(name, params...)
		}))
	}
	return options
}
