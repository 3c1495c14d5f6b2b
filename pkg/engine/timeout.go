package engine

import (
	"context"
	"time"

	"github.com/chazu/roft/pkg/scene"
	"github.com/pkg/errors"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation exceeds its limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started first.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// begin starts a new generation and returns its number.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// wait blocks until ch delivers or ctx ends. A zygomys run cannot be
// interrupted, so an abandoned goroutine may still finish later; its result
// lands in a buffered channel nobody reads. A result from an older
// generation than the engine's current one is discarded as superseded.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*scene.Scene, []EvalError, error) {
	select {
	case res := <-ch:
		if gen != e.current() {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err

	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, nil, errors.Wrapf(ErrTimeout, "after %s", e.timeout)
		}
		return nil, nil, errors.Wrap(ctx.Err(), "evaluation")
	}
}
