package tapable

import (
	"context"
	"sync"
)

// Promise is the result handle of a promise-kind tap or of Hook.Promise. It settles exactly
// once, either resolved with a value or rejected with an error.
//
// Cancellation is not part of a Promise: callers abandon a pending promise by awaiting it with
// a cancellable context.
type Promise struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

// NewPromise creates a promise and runs executor synchronously with its resolve and reject
// functions. Only the first settlement counts.
func NewPromise(executor func(resolve func(any), reject func(error))) *Promise {
	p := &Promise{done: make(chan struct{})}
	executor(p.resolve, p.reject)
	return p
}

// Resolved returns a promise already resolved with value.
func Resolved(value any) *Promise {
	return NewPromise(func(resolve func(any), _ func(error)) { resolve(value) })
}

// Rejected returns a promise already rejected with err.
func Rejected(err error) *Promise {
	return NewPromise(func(_ func(any), reject func(error)) { reject(err) })
}

func (p *Promise) resolve(value any) {
	p.settle(value, nil)
}

func (p *Promise) reject(err error) {
	p.settle(nil, err)
}

func (p *Promise) settle(value any, err error) {
	p.once.Do(func() {
		p.value, p.err = value, err
		close(p.done)
	})
}

// Done returns a channel that is closed once the promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the promise has resolved or rejected.
func (p *Promise) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the promise settles or ctx is done. A cancelled wait returns ctx.Err()
// and leaves the promise untouched.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then calls cb with the settled outcome. Settled promises call cb immediately on the caller's
// goroutine; pending promises call it from a new goroutine once they settle.
func (p *Promise) Then(cb Callback) {
	if p.Settled() {
		cb(p.err, p.value)
		return
	}
	go func() {
		<-p.done
		cb(p.err, p.value)
	}()
}
