// Package mainthread marshals work onto a single owner goroutine.
//
// The host's object graph may only be read from one thread. Request handlers
// run elsewhere, so they hand a closure to a [Pump] and block until the
// owner goroutine has run it. The hand-off is a single-slot channel: one
// request is in flight at a time and later callers wait their turn.
//
// # Usage
//
// The owner goroutine drives the pump, either continuously:
//
//	go srv.Start(ctx)
//	pump.Run(ctx)
//
// or from a host timer callback:
//
//	for pump.Poll() {
//	}
//
// Workers submit work with [Call]:
//
//	res, err := mainthread.Call(ctx, pump, func() (*ir.Result, error) {
//	    return tr.Translate(ctx, mat, opts)
//	})
package mainthread

import (
	"context"
	"time"

	"github.com/matzehuels/gslbridge/pkg/errors"
)

type request struct {
	fn   func()
	done chan struct{}
}

// Pump executes submitted closures on the goroutine driving it.
type Pump struct {
	// Timeout bounds how long Call waits for the owner goroutine. Zero waits
	// indefinitely: a stalled owner stalls the request.
	Timeout time.Duration

	requests chan request
}

// New creates a pump with the given wait timeout (zero for none).
func New(timeout time.Duration) *Pump {
	return &Pump{Timeout: timeout, requests: make(chan request, 1)}
}

// Run executes requests until ctx is done.
func (p *Pump) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-p.requests:
			p.exec(req)
		}
	}
}

// Poll executes at most one pending request without blocking and reports
// whether it ran one.
func (p *Pump) Poll() bool {
	select {
	case req := <-p.requests:
		p.exec(req)
		return true
	default:
		return false
	}
}

func (p *Pump) exec(req request) {
	defer close(req.done)
	req.fn()
}

type ownerKey struct{}

// Owned marks ctx as belonging to the goroutine that drives p. Call runs
// inline under such a context instead of deadlocking on its own pump.
func Owned(ctx context.Context, p *Pump) context.Context {
	return context.WithValue(ctx, ownerKey{}, p)
}

func (p *Pump) ownedBy(ctx context.Context) bool {
	owner, _ := ctx.Value(ownerKey{}).(*Pump)
	return owner == p
}

// Call runs fn on the pump's goroutine and returns its results. When ctx is
// [Owned] by p, fn runs inline. Panics in fn propagate to the caller.
func Call[T any](ctx context.Context, p *Pump, fn func() (T, error)) (T, error) {
	var (
		res      T
		err      error
		panicked any
	)
	if p.ownedBy(ctx) {
		return fn()
	}

	req := request{done: make(chan struct{})}
	req.fn = func() {
		defer func() { panicked = recover() }()
		res, err = fn()
	}

	var timeout <-chan time.Time
	if p.Timeout > 0 {
		timer := time.NewTimer(p.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case p.requests <- req:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-timeout:
		var zero T
		return zero, errors.New(errors.ErrCodeTimeout, "main thread did not accept the request within %s", p.Timeout)
	}

	select {
	case <-req.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-timeout:
		// The closure still runs later; its results are discarded.
		var zero T
		return zero, errors.New(errors.ErrCodeTimeout, "main thread did not finish within %s", p.Timeout)
	}
	if panicked != nil {
		panic(panicked)
	}
	return res, err
}
