//go:build !js_eval

package prefs

// NewJSEvaluator returns nil unless the binary is built with -tags js_eval.
func NewJSEvaluator(...EvaluatorOption) Evaluator { return nil }

func jsEvaluatorAvailable() bool { return false }
