package prefs

import (
	"slices"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluator runs rules written in CEL. Every snapshot key is declared as
// a dyn variable, so a program is compiled once per expression and set of
// snapshot keys.
type CELEvaluator struct {
	evaluatorConfig
}

func NewCELEvaluator(opts ...EvaluatorOption) *CELEvaluator {
	return &CELEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

func (e *CELEvaluator) Engine() Engine { return EngineCEL }

func (e *CELEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, evaluationError(EngineCEL, "", ctx.Rule, ErrEmptyExpression)
	}
	vars := ctx.variables()
	names := variableNames(vars)

	key := cacheKey(EngineCEL, expression) + "|" + strings.Join(names, ",")
	program, err := cachedProgram(e.cache, key, func() (celgo.Program, error) {
		return e.compile(expression, names)
	})
	if err != nil {
		return nil, evaluationError(EngineCEL, expression, ctx.ruleLabel(), err)
	}

	out, _, err := program.Eval(vars)
	if err != nil {
		return nil, evaluationError(EngineCEL, expression, ctx.ruleLabel(), err)
	}
	return out.Value(), nil
}

// Compile only parses expression. Type checking needs the snapshot keys, so
// the returned rule resolves its program per evaluation through the cache.
func (e *CELEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, evaluationError(EngineCEL, "", "", ErrEmptyExpression)
	}
	env, err := celgo.NewEnv(e.envOptions(nil)...)
	if err != nil {
		return nil, evaluationError(EngineCEL, expression, "", err)
	}
	if _, issues := env.Parse(expression); issues != nil && issues.Err() != nil {
		return nil, evaluationError(EngineCEL, expression, "", issues.Err())
	}
	return ruleFunc(func(ctx RuleContext) (any, error) {
		return e.Evaluate(ctx, expression)
	}), nil
}

func (e *CELEvaluator) compile(expression string, names []string) (celgo.Program, error) {
	env, err := celgo.NewEnv(e.envOptions(names)...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	return env.Program(ast)
}

func (e *CELEvaluator) envOptions(names []string) []celgo.EnvOption {
	opts := make([]celgo.EnvOption, 0, len(names)+1)
	for _, name := range names {
		switch name {
		case "now":
			opts = append(opts, celgo.Variable(name, celgo.TimestampType))
		default:
			opts = append(opts, celgo.Variable(name, celgo.DynType))
		}
	}
	if e.funcs != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType},
				celgo.DynType,
				celgo.BinaryBinding(func(name, arg ref.Val) ref.Val {
					return e.celCall(name, arg)
				}),
			),
			celgo.Overload("call_string_dyn_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType},
				celgo.DynType,
				celgo.FunctionBinding(e.celCall),
			),
		))
	}
	return opts
}

func (e *CELEvaluator) celCall(values ...ref.Val) ref.Val {
	arguments := make([]any, len(values))
	for i, value := range values {
		arguments[i] = value.Value()
	}
	result, err := e.call(arguments...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

func variableNames(vars map[string]any) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
