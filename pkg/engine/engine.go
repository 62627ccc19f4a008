// Package engine provides the Lisp evaluation engine for caisson scenes.
// It wraps zygomys in a sandboxed environment and produces a scene.Scene
// from user source code.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/caisson/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is an advisory finding about an evaluated scene.
type EvalWarning struct {
	Cabinet string `json:"cabinet,omitempty"`
	Message string `json:"message"`
}

// EvalResult bundles the full output of an evaluation for front ends.
type EvalResult struct {
	Scene    *scene.Scene  `json:"scene,omitempty"`
	Errors   []EvalError   `json:"errors"`
	Warnings []EvalWarning `json:"warnings"`
}

// OK reports whether the scene evaluated and validated without errors.
func (r EvalResult) OK() bool {
	return r.Scene != nil && len(r.Errors) == 0
}

// Engine wraps the zygomys interpreter for scene evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes evaluation logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates a new Engine instance. Without WithLogger it logs
// nowhere.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: EvalTimeout,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Scene.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate, abandoning the evaluation when ctx ends.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*scene.Scene, []EvalError, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "evaluation cancelled")
	}
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	e.log.Debug("evaluating scene", "generation", gen, "bytes", len(source))

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	res, err := e.await(ctx, ch, gen)
	if err == nil {
		err = res.err
	}
	s, evalErrs := res.scene, res.errors
	switch {
	case err != nil:
		e.log.Debug("evaluation failed", "generation", gen, "error", err)
	case len(evalErrs) > 0:
		e.log.Debug("evaluation reported errors", "generation", gen, "count", len(evalErrs))
	default:
		e.log.Debug("evaluation finished", "generation", gen, "cabinets", s.Len())
	}
	return s, evalErrs, err
}

// Run evaluates source and validates the resulting scene. Blocking
// validation findings become errors without line information; advisory
// findings become warnings. A fatal failure is reported as a single error.
func (e *Engine) Run(source string) EvalResult {
	return e.RunContext(context.Background(), source)
}

// RunContext is Run bounded by ctx.
func (e *Engine) RunContext(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Errors:   []EvalError{},
		Warnings: []EvalWarning{},
	}

	s, evalErrs, err := e.EvaluateContext(ctx, source)
	if err != nil {
		result.Errors = append(result.Errors, EvalError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = append(result.Errors, evalErrs...)
		return result
	}

	result.Scene = s
	v := scene.ValidateAll(s)
	for _, f := range v.Errors {
		result.Errors = append(result.Errors, EvalError{Message: f.Error()})
	}
	for _, f := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalWarning{Cabinet: f.Name, Message: f.Message})
	}
	return result
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return scene.New(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := scene.New()
	registerBuiltins(env, s)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{
			Line:    line,
			Message: strings.TrimSpace(m[2]),
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{
			Line:    line,
			Message: strings.TrimSpace(m[2]),
		}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
