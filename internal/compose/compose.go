// Package compose implements a generic onion-style middleware chain runner.
// A composed chain runs its links in registration order: each link may do
// work, call next() to hand off to the rest of the chain, then do more work
// once next() returns.
package compose

import (
	"context"
	"errors"
	"fmt"

	"github.com/RagibHasin/mudawanah/internal/config"
)

var (
	// ErrReentrantProceed is returned when a middleware calls next() more
	// than once within a single invocation.
	ErrReentrantProceed = errors.New("compose: next() called multiple times")

	// ErrMiddlewareTimeout is returned when the request context is cancelled
	// or expires between links of the chain.
	ErrMiddlewareTimeout = errors.New("compose: context done before chain completed")
)

// Middleware is one link of a chain over a context value of type T. It may
// inspect or mutate c, and calls next to continue to the rest of the chain.
// Not calling next short-circuits the chain.
type Middleware[T any] func(ctx context.Context, c *T, cfg *config.Config, next func() error) error

// Compose folds a chain of middlewares into a single middleware. The empty
// chain composes to a pass-through that calls the outer next exactly once.
func Compose[T any](chain []Middleware[T]) Middleware[T] {
	// copy so later appends by the caller cannot change a composed chain
	chain = append([]Middleware[T](nil), chain...)

	return func(ctx context.Context, c *T, cfg *config.Config, next func() error) error {
		// index of the last dispatched link, guards against reentrant next()
		index := -1
		reentered := false

		var dispatch func(i int) error
		dispatch = func(i int) error {
			if i <= index {
				reentered = true
				return ErrReentrantProceed
			}
			index = i

			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrMiddlewareTimeout, err)
			}

			if i == len(chain) {
				if next == nil {
					return nil
				}
				return next()
			}
			return chain[i](ctx, c, cfg, func() error {
				return dispatch(i + 1)
			})
		}

		err := dispatch(0)
		if reentered {
			// A link may have swallowed the error from its second next()
			// call; the chain still aborts with it.
			return ErrReentrantProceed
		}
		return err
	}
}
