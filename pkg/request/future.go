package request

import (
	"context"
)

// Future is a result of an asynchronous operation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// NewFuture starts the operation in a new goroutine.
// The context is passed to the operation, cancel it to abort the operation.
func NewFuture[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// ResolvedFuture returns an already completed Future.
func ResolvedFuture[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Done returns a channel which is closed when the operation is completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the operation is completed or the context is done.
// Abandoning the Future doesn't stop the operation, cancel the context passed to NewFuture.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var empty T
		return empty, ctx.Err()
	}
}
