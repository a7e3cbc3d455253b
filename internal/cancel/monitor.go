// Package cancel provides cooperative stop signals that long-running
// searches poll between units of work.
package cancel

import (
	"context"
	"sync/atomic"
)

// Monitor reports whether a stop has been requested. Implementations must be
// safe for concurrent use and Stopped must never block.
type Monitor interface {
	Stopped() bool
}

// Flag is a programmatic Monitor. The zero value is ready to use.
type Flag struct {
	stopped atomic.Bool
}

// Stop requests cancellation. Idempotent.
func (f *Flag) Stop() {
	f.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (f *Flag) Stopped() bool {
	return f.stopped.Load()
}

// FromContext adapts a context to a Monitor that reports stopped once the
// context is done.
func FromContext(ctx context.Context) Monitor {
	return ctxMonitor{ctx: ctx}
}

type ctxMonitor struct {
	ctx context.Context
}

func (c ctxMonitor) Stopped() bool {
	return c.ctx.Err() != nil
}
