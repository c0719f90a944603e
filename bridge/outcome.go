package bridge

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrAlreadySettled is the panic value raised when an Outcome is settled a
// second time.
var ErrAlreadySettled = errors.New("bridge: outcome already settled")

var errNilRejection = errors.New("bridge: outcome rejected with nil error")

// Outcome is a one-shot result cell. It is settled exactly once, by Resolve or
// Reject, and read by any number of Await calls.
type Outcome[T any] struct {
	settled atomic.Bool
	done    chan struct{}
	value   T
	err     error
}

// NewOutcome returns an unsettled outcome.
func NewOutcome[T any]() *Outcome[T] {
	return &Outcome[T]{done: make(chan struct{})}
}

// Resolve settles the outcome with value. It panics if already settled.
func (o *Outcome[T]) Resolve(value T) {
	o.settle(value, nil)
}

// Reject settles the outcome with err. It panics if already settled.
func (o *Outcome[T]) Reject(err error) {
	if err == nil {
		err = errNilRejection
	}
	var zero T
	o.settle(zero, err)
}

func (o *Outcome[T]) settle(value T, err error) {
	if !o.settled.CompareAndSwap(false, true) {
		panic(ErrAlreadySettled)
	}
	o.value = value
	o.err = err
	close(o.done)
}

// Done is closed once the outcome is settled.
func (o *Outcome[T]) Done() <-chan struct{} {
	return o.done
}

// Ready reports whether the outcome has been settled and is readable.
func (o *Outcome[T]) Ready() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Result returns the settled value. It must only be called after Done is
// closed.
func (o *Outcome[T]) Result() (T, error) {
	if !o.Ready() {
		var zero T
		return zero, errors.New("bridge: outcome is not settled")
	}
	return o.value, o.err
}

// Await blocks until the outcome settles or ctx ends.
func (o *Outcome[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-o.done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
