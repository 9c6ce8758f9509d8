package schema

import (
	"context"
	"errors"
)

// errNoResult is returned when an Async validator closes its channel
// without sending.
var errNoResult = errors.New("validator returned no result")

// Func adapts a synchronous validation function to Schema.
type Func func(ctx context.Context, input any) Result

// Validate implements Schema.
func (f Func) Validate(ctx context.Context, input any) (Result, error) {
	return f(ctx, input), nil
}

// Async adapts a validation function that delivers its result on a
// channel. Validate waits for the result or for ctx to be done.
type Async func(ctx context.Context, input any) <-chan Result

// Validate implements Schema.
func (f Async) Validate(ctx context.Context, input any) (Result, error) {
	ch := f(ctx, input)
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res, ok := <-ch:
		if !ok {
			return Result{}, errNoResult
		}
		return res, nil
	}
}

// Passthrough returns a schema that accepts every input unchanged.
func Passthrough() Schema {
	return Func(func(_ context.Context, input any) Result {
		return Result{Value: input}
	})
}
