package thread

import (
	"time"

	"github.com/gojvm/corevm/corelog"
)

// Thread owns a stack of frames, a status field, an interrupted flag, a
// blocked-monitor reference, and a non-owning back-pointer to its pool
// (spec.md section 3). The pool owns the thread; the thread never owns the
// pool (spec.md section 9, "cyclic pool <-> thread references").
type Thread struct {
	status      Status
	stack       []Frame
	interrupted bool
	immortal    bool
	daemon      bool

	monitorBlock Monitor
	javaThread   JavaThreadBridge
	bsClassLoader ClassLoader

	pool *ThreadPool
	log  corelog.Logger

	// id is used for logging and as the key of the pool's park balance; the
	// pool's thread list is the source of truth for ordering.
	id int64
}

// NewThread constructs a thread in NEW status, owned by pool.
func NewThread(id int64, pool *ThreadPool, javaThread JavaThreadBridge, bsClassLoader ClassLoader, log corelog.Logger) *Thread {
	return &Thread{
		status:        StatusNew,
		javaThread:    javaThread,
		bsClassLoader: bsClassLoader,
		pool:          pool,
		log:           log,
		id:            id,
	}
}

func (t *Thread) ID() int64  { return t.id }
func (t *Thread) Pool() *ThreadPool { return t.pool }

func (t *Thread) Status() Status { return t.status }

func (t *Thread) Immortal() bool      { return t.immortal }
func (t *Thread) SetImmortal(v bool)  { t.immortal = v }
func (t *Thread) Daemon() bool        { return t.daemon }
func (t *Thread) SetDaemon(v bool)    { t.daemon = v }

func (t *Thread) Interrupted() bool     { return t.interrupted }
func (t *Thread) SetInterrupted(v bool) { t.interrupted = v }

func (t *Thread) MonitorBlock() Monitor { return t.monitorBlock }
func (t *Thread) SetMonitorBlock(m Monitor) { t.monitorBlock = m }

// SetStatus drives the state machine in status.go. An immortal thread
// silently drops any attempt to move it to TERMINATED (spec.md section 3
// invariant). RUNNING -> RUNNABLE is a true no-op per spec.md section 4.9's
// state table: a thread that is still RUNNING stays RUNNING, so a
// synchronous async_return/throw_exception made mid-frame (the native
// synchronous-return path, an opcode's own return/throw) continues the same
// host tick instead of forcing an extra round through the scheduler.
// Illegal transitions panic in debug builds (AssertTransitions) and are
// otherwise ignored, per spec.md section 7.2.
func (t *Thread) SetStatus(to Status) {
	if t.immortal && to == StatusTerminated {
		return
	}
	from := t.status
	if from == StatusRunning && to == StatusRunnable {
		return
	}
	if !IsPermittedTransition(from, to) {
		if AssertTransitions {
			panic(&InvalidTransitionError{From: from, To: to})
		}
		return
	}
	t.status = to
	if t.javaThread != nil {
		t.javaThread.SetThreadStatus(int32(to.JVMTIState()))
	}
	if t.log.Enabled() {
		t.log.Debug().Int64("thread", t.id).Str("from", from.String()).Str("to", to.String()).Log("status transition")
	}
}

// PushFrame pushes a new top-of-stack frame.
func (t *Thread) PushFrame(f Frame) {
	t.stack = append(t.stack, f)
}

// popFrame removes and returns the top-of-stack frame. Callers must check
// IsStackEmpty first; popping an empty stack is a programmer error.
func (t *Thread) popFrame() Frame {
	n := len(t.stack)
	top := t.stack[n-1]
	t.stack = t.stack[:n-1]
	return top
}

// CurrentFrame returns the top-of-stack frame, or nil if the stack is
// empty.
func (t *Thread) CurrentFrame() Frame {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

func (t *Thread) IsStackEmpty() bool { return len(t.stack) == 0 }
func (t *Thread) StackDepth() int    { return len(t.stack) }

// StackTrace projects the visible frames top-to-bottom, skipping internal
// frames per spec.md section 4.1.
func (t *Thread) StackTrace() []STFrame {
	var trace []STFrame
	for i := len(t.stack) - 1; i >= 0; i-- {
		if st, ok := t.stack[i].StackTraceFrame(); ok {
			trace = append(trace, st)
		}
	}
	return trace
}

// RunLoop is the thread execution loop entered by the scheduler whenever a
// thread transitions into RUNNING (spec.md section 4.5).
func (t *Thread) RunLoop(budget *schedulerBudget, clock Clock, deferFn func(func())) {
	resumesLeft := budget.maxMethodResumes
	start := clock.Now()

	for t.status == StatusRunning && len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		top.Run(t)
		resumesLeft--
		if resumesLeft == 0 {
			dur := clock.Now().Sub(start)
			budget.recordSample(dur)
			if t.status == StatusRunning {
				t.SetStatus(StatusAsyncWaiting)
				deferFn(func() {
					t.SetStatus(StatusRunnable)
					t.pool.threadRunnable(t)
				})
			}
			return
		}
	}
	if len(t.stack) == 0 {
		t.SetStatus(StatusTerminated)
	}
}

// AsyncReturn implements spec.md section 4.6: valid only from RUNNING,
// RUNNABLE, or ASYNC_WAITING. Pops the top frame, resumes the frame beneath
// it if any, and transitions to RUNNABLE.
func (t *Thread) AsyncReturn(rv, rv2 any) {
	if !isAsyncReturnableStatus(t.status) {
		if AssertTransitions {
			panic(&InvalidResumeError{Detail: "async_return from status " + t.status.String()})
		}
		return
	}
	t.popFrame()
	if len(t.stack) > 0 {
		t.stack[len(t.stack)-1].ScheduleResume(t, rv, rv2)
	}
	t.SetStatus(StatusRunnable)
	if t.pool != nil {
		t.pool.threadRunnable(t)
	}
}

// ThrowException implements spec.md section 4.7.
func (t *Thread) ThrowException(exc any) {
	if !isAsyncReturnableStatus(t.status) {
		if AssertTransitions {
			panic(&InvalidResumeError{Detail: "throw_exception from status " + t.status.String()})
		}
		return
	}
	if len(t.stack) > 0 {
		if _, isInternal := t.stack[len(t.stack)-1].(*InternalFrame); isInternal {
			t.popFrame()
		}
	}
	t.SetStatus(StatusRunnable)

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		if top.ScheduleException(t, exc) {
			return
		}
		t.popFrame()
	}

	if t.javaThread != nil {
		t.javaThread.DispatchUncaughtException(exc)
	}
}

// isAsyncReturnableStatus reports whether the thread is in one of the
// statuses from which async_return / throw_exception may be called
// (spec.md sections 4.6 and 4.7).
func isAsyncReturnableStatus(s Status) bool {
	return s == StatusRunning || s == StatusRunnable || s == StatusAsyncWaiting
}

// Clock abstracts time.Now so the adaptive budget (spec.md section 4.5) is
// deterministically testable.
type Clock interface {
	Now() time.Time
}

// systemClock is the production Clock backed by the real wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the default Clock used outside of tests.
var SystemClock Clock = systemClock{}
