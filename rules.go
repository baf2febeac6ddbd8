package prefs

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrNoEvaluator = errors.New("prefs: evaluator not configured")
	// ErrEngineUnavailable is returned for engines compiled out of the binary,
	// such as js without the js_eval build tag.
	ErrEngineUnavailable = errors.New("prefs: rule engine unavailable")
	ErrUnknownEngine     = errors.New("prefs: unknown rule engine")
	ErrRuleNotBoolean    = errors.New("prefs: rule did not evaluate to a boolean")
	ErrEmptyExpression   = errors.New("prefs: rule expression is empty")
)

// Engine names a rule language.
type Engine string

const (
	EngineExpr Engine = "expr"
	EngineCEL  Engine = "cel"
	EngineJS   Engine = "js"
)

// RuleContext carries the inputs of one rule evaluation. Snapshot keys are
// exposed as top level variables, next to now and args.
type RuleContext struct {
	Snapshot map[string]any
	Now      *time.Time
	Args     map[string]any
	// Rule names the rule in errors and logs.
	Rule string
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	return ctx
}

// variables flattens the context into the names a rule can reference.
// Snapshot keys named now or args are shadowed by the built-ins.
func (ctx RuleContext) variables() map[string]any {
	ctx = ctx.withDefaults()
	vars := make(map[string]any, len(ctx.Snapshot)+2)
	for key, value := range ctx.Snapshot {
		vars[key] = value
	}
	vars["now"] = *ctx.Now
	vars["args"] = ctx.Args
	return vars
}

func (ctx RuleContext) ruleLabel() string {
	if ctx.Rule != "" {
		return ctx.Rule
	}
	return "unnamed"
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Engine() Engine
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

type ruleFunc func(RuleContext) (any, error)

func (f ruleFunc) Evaluate(ctx RuleContext) (any, error) { return f(ctx) }

// ProgramCache stores compiled programs. Keys are prefixed with the engine
// name so evaluators can share one cache.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryProgramCache is an unbounded, concurrency safe ProgramCache.
type MemoryProgramCache struct {
	programs sync.Map
}

func NewProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{}
}

func (c *MemoryProgramCache) Get(key string) (any, bool) {
	return c.programs.Load(key)
}

func (c *MemoryProgramCache) Set(key string, value any) {
	c.programs.Store(key, value)
}

func cacheKey(engine Engine, expression string) string {
	return string(engine) + ":" + expression
}

// cachedProgram returns the program stored under key, compiling and storing
// it on a miss. A nil cache compiles every time.
func cachedProgram[P any](cache ProgramCache, key string, compile func() (P, error)) (P, error) {
	if cache != nil {
		if cached, ok := cache.Get(key); ok {
			if program, ok := cached.(P); ok {
				return program, nil
			}
		}
	}
	program, err := compile()
	if err != nil {
		return program, err
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}

// EvaluatorOption configures any of the rule evaluators.
type EvaluatorOption func(*evaluatorConfig)

type evaluatorConfig struct {
	cache ProgramCache
	funcs *FunctionRegistry
}

// WithProgramCache reuses compiled programs across evaluations.
func WithProgramCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

// WithFunctions exposes registry helpers to rules, both by name and through
// call(name, ...). The registry is copied.
func WithFunctions(registry *FunctionRegistry) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		if registry != nil {
			cfg.funcs = registry.Clone()
		}
	}
}

func newEvaluatorConfig(opts []EvaluatorOption) evaluatorConfig {
	var cfg evaluatorConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// call dispatches call(name, args...) to the registry.
func (cfg evaluatorConfig) call(arguments ...any) (any, error) {
	if len(arguments) == 0 {
		return nil, fmt.Errorf("prefs: call requires a function name")
	}
	name, ok := arguments[0].(string)
	if !ok {
		return nil, fmt.Errorf("prefs: call name must be a string, got %T", arguments[0])
	}
	return cfg.funcs.Call(name, arguments[1:]...)
}

// NewEvaluator builds the evaluator for engine.
func NewEvaluator(engine Engine, opts ...EvaluatorOption) (Evaluator, error) {
	switch Engine(strings.ToLower(string(engine))) {
	case EngineExpr, "":
		return NewExprEvaluator(opts...), nil
	case EngineCEL:
		return NewCELEvaluator(opts...), nil
	case EngineJS:
		if !jsEvaluatorAvailable() {
			return nil, fmt.Errorf("%w: %s (build with -tags js_eval)", ErrEngineUnavailable, engine)
		}
		return NewJSEvaluator(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// EvaluateBool runs expr and requires a boolean result. Evaluations are
// reported to logger when it is not nil.
func EvaluateBool(evaluator Evaluator, logger EvaluatorLogger, ctx RuleContext, expr string) (bool, error) {
	if evaluator == nil {
		return false, ErrNoEvaluator
	}
	ctx = ctx.withDefaults()
	engine := evaluator.Engine()

	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expr)
	result, isBool := value.(bool)
	if err == nil && !isBool {
		err = fmt.Errorf("%w: got %T", ErrRuleNotBoolean, value)
	}
	err = evaluationError(engine, expr, ctx.ruleLabel(), err)

	if logger != nil {
		logger.LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     expr,
			Rule:     ctx.ruleLabel(),
			Duration: time.Since(start),
			Err:      err,
		})
	}
	if err != nil {
		return false, err
	}
	return result, nil
}
