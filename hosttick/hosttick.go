// Package hosttick supplies the "defer to the next host event-loop tick"
// primitive spec.md sections 4.5, 4.8, and 9 require of the embedding
// language: schedule_next_thread and the responsiveness yield must both
// cross the host event-loop boundary rather than recursing synchronously.
// It wraps github.com/joeycumines/go-eventloop's Loop, the single-threaded
// reactor present in the reference corpus.
package hosttick

import (
	"context"
	"time"

	eventloop "github.com/joeycumines/go-eventloop"
)

// Ticker defers work to the next host tick. nativefn depends on this narrow
// interface rather than on *eventloop.Loop directly, so tests can substitute
// a fake. The thread package declares its own Defer-only Ticker, which
// *LoopTicker also satisfies.
type Ticker interface {
	// Defer queues fn to run on a later turn of the host loop, the
	// equivalent of Loop.SubmitInternal: used for schedule_next_thread and
	// the responsiveness-budget yield.
	Defer(fn func())

	// Microtask queues fn to run before the next queued task, the
	// equivalent of Loop.ScheduleMicrotask: used where a continuation must
	// observe state changes made earlier in the same tick.
	Microtask(fn func())

	// After schedules fn to run no sooner than d, backing TIMED_WAITING
	// wakeups driven by the monitor collaborator.
	After(d time.Duration, fn func())
}

// LoopTicker adapts a *eventloop.Loop to Ticker.
type LoopTicker struct {
	loop *eventloop.Loop
}

// NewLoopTicker wraps an already-constructed event loop.
func NewLoopTicker(loop *eventloop.Loop) *LoopTicker {
	return &LoopTicker{loop: loop}
}

// New constructs a fresh event loop and wraps it.
func New() (*LoopTicker, error) {
	loop, err := eventloop.New()
	if err != nil {
		return nil, err
	}
	return &LoopTicker{loop: loop}, nil
}

func (t *LoopTicker) Defer(fn func()) {
	_ = t.loop.SubmitInternal(eventloop.Task(fn))
}

func (t *LoopTicker) Microtask(fn func()) {
	_ = t.loop.ScheduleMicrotask(fn)
}

func (t *LoopTicker) After(d time.Duration, fn func()) {
	_ = t.loop.ScheduleTimer(d, fn)
}

// Run drives the underlying loop until ctx is cancelled or it goes idle.
func (t *LoopTicker) Run(ctx context.Context) error {
	return t.loop.Run(ctx)
}

// Shutdown stops the underlying loop.
func (t *LoopTicker) Shutdown(ctx context.Context) error {
	return t.loop.Shutdown(ctx)
}
