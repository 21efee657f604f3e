package search

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays work until input settles. Each Trigger supersedes the
// previous one: the pending timer is stopped and a generation counter guards
// the callback, so a stale timer that already fired its goroutine can never
// deliver after a newer trigger (rapid typing cannot produce out-of-order
// results).
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a debouncer with the given settle delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the settle delay, cancelling any pending run.
// fn runs on a timer goroutine; it receives ctx and must honor cancellation
// itself if it does slow work. If ctx is cancelled before the delay elapses
// the run is dropped.
func (d *Debouncer) Trigger(ctx context.Context, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		stale := gen != d.gen
		d.mu.Unlock()
		if stale || ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// Stop cancels any pending run.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
