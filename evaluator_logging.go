package prefs

import (
	"log/slog"
	"time"
)

// EvaluatorLogEvent describes an evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   Engine
	Expr     string
	Rule     string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

// SlogEvaluatorLogger writes evaluations at debug level and failures at warn.
func SlogEvaluatorLogger(logger *slog.Logger) EvaluatorLogger {
	if logger == nil {
		return nil
	}
	logger = logger.With("component", "prefs.rules")
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		attrs := []any{
			"engine", event.Engine,
			"rule", event.Rule,
			"expr", event.Expr,
			"duration", event.Duration,
		}
		if event.Err != nil {
			logger.Warn("rule evaluation failed", append(attrs, "error", event.Err)...)
			return
		}
		logger.Debug("rule evaluated", attrs...)
	})
}
