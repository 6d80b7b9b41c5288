package config

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/LeDuyViet/quicktrace"
	"github.com/LeDuyViet/quicktrace/internal/log"
)

// GateEnv is the environment gate expressions are evaluated against.
type GateEnv struct {
	// Name is the tracer name.
	Name string `expr:"name"`
	// TotalMS is the total duration in milliseconds.
	TotalMS float64 `expr:"total_ms"`
	// Spans is the number of checkpoints, excluding the terminal one.
	Spans int `expr:"spans"`
	// MaxSpanMS is the longest checkpoint in milliseconds, terminal included.
	MaxSpanMS float64 `expr:"max_span_ms"`
}

// NewGateEnv captures the gate environment of a tracer. Once ended, the
// total is the one snapshotted by End.
func NewGateEnv(t *quicktrace.Tracer) GateEnv {
	total, finished := t.FinalDuration()
	if !finished {
		total = t.TotalDuration()
	}
	env := GateEnv{
		Name:    t.Name(),
		TotalMS: millis(total.Nanoseconds()),
		Spans:   len(t.Spans()),
	}
	for _, m := range t.Measurements() {
		env.MaxSpanMS = max(env.MaxSpanMS, millis(m.Elapsed.Nanoseconds()))
	}
	return env
}

func millis(ns int64) float64 {
	return float64(ns) / 1e6
}

// ExprGate compiles a boolean expression into a gate, for example
//
//	total_ms > 250 || max_span_ms > 100
//
// A runtime evaluation error rejects the trace and is logged.
func ExprGate(src string, logger *slog.Logger) (quicktrace.Gate, error) {
	program, err := compileGate(src)
	if err != nil {
		return nil, fmt.Errorf("compile gate expression: %w", err)
	}
	if logger == nil {
		logger = log.Discard()
	}

	return func(t *quicktrace.Tracer) bool {
		result, err := expr.Run(program, NewGateEnv(t))
		if err != nil {
			logger.Error("evaluate gate expression",
				slog.String(log.TracerKey, t.Name()),
				slog.String("expr", src),
				log.Error(err),
			)
			return false
		}
		pass, ok := result.(bool)
		return ok && pass
	}, nil
}

func compileGate(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(GateEnv{}), expr.AsBool())
}
