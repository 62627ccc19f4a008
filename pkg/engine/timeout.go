package engine

import (
	"context"
	"time"

	"github.com/chazu/caisson/pkg/scene"
	"github.com/pkg/errors"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation outlives the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// WithTimeout bounds every evaluation by d. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// current reports whether gen is still the newest evaluation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}

// await waits for the worker of generation gen. A worker that is still
// running when ctx ends or the limit passes is abandoned; ch is buffered
// so it can still deliver and exit.
func (e *Engine) await(ctx context.Context, ch <-chan evalResult, gen uint64) (evalResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return evalResult{}, ErrSuperseded
		}
		return res, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return evalResult{}, errors.Wrapf(ErrTimeout, "limit %s", e.timeout)
		}
		return evalResult{}, errors.Wrap(ctx.Err(), "evaluation cancelled")
	}
}
