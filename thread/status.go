package thread

import "fmt"

// Status mirrors the ten values of java/lang/Thread/threadStatus that this
// core drives a thread through. Only one Java thread is ever RUNNING at a
// time; the rest is cooperative bookkeeping for the scheduler and monitors.
type Status int32

const (
	StatusNew Status = iota
	StatusRunnable
	StatusRunning
	StatusBlocked
	StatusUninterruptablyBlocked
	StatusWaiting
	StatusTimedWaiting
	StatusAsyncWaiting
	StatusParked
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusRunnable:
		return "RUNNABLE"
	case StatusRunning:
		return "RUNNING"
	case StatusBlocked:
		return "BLOCKED"
	case StatusUninterruptablyBlocked:
		return "UNINTERRUPTABLY_BLOCKED"
	case StatusWaiting:
		return "WAITING"
	case StatusTimedWaiting:
		return "TIMED_WAITING"
	case StatusAsyncWaiting:
		return "ASYNC_WAITING"
	case StatusParked:
		return "PARKED"
	case StatusTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// JVMTIState is the coarser state JVMTI (and thus reflective Java code)
// actually observes; several of our Status values collapse onto the same
// JVMTI bucket.
type JVMTIState int32

const (
	JVMTIAlive JVMTIState = iota
	JVMTIRunnable
	JVMTIBlockedOnMonitorEnter
	JVMTIWaitingIndefinitely
	JVMTIWaitingWithTimeout
	JVMTITerminated
)

func (j JVMTIState) String() string {
	switch j {
	case JVMTIAlive:
		return "ALIVE"
	case JVMTIRunnable:
		return "RUNNABLE"
	case JVMTIBlockedOnMonitorEnter:
		return "BLOCKED_ON_MONITOR_ENTER"
	case JVMTIWaitingIndefinitely:
		return "WAITING_INDEFINITELY"
	case JVMTIWaitingWithTimeout:
		return "WAITING_WITH_TIMEOUT"
	case JVMTITerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// JVMTIState projects a Status onto the bucket Java-visible introspection
// (Thread.getState, JVMTI GetThreadState) reports.
func (s Status) JVMTIState() JVMTIState {
	switch s {
	case StatusNew:
		return JVMTIAlive
	case StatusRunnable, StatusRunning:
		return JVMTIRunnable
	case StatusBlocked, StatusUninterruptablyBlocked:
		return JVMTIBlockedOnMonitorEnter
	case StatusWaiting:
		return JVMTIWaitingIndefinitely
	case StatusTimedWaiting, StatusParked:
		return JVMTIWaitingWithTimeout
	case StatusAsyncWaiting:
		// Not separately visible; closest to "still alive, not blocked".
		return JVMTIAlive
	case StatusTerminated:
		return JVMTITerminated
	default:
		return JVMTIAlive
	}
}

// transitions is the sparse table of (old, new) pairs permitted by the state
// machine in section 4.9 of the core design. Anything absent is a programmer
// error.
var transitions = map[Status]map[Status]bool{
	StatusNew: {
		StatusRunnable:     true,
		StatusAsyncWaiting: true,
		StatusTerminated:   true,
	},
	StatusRunnable: {
		StatusRunning:      true,
		StatusAsyncWaiting: true,
	},
	StatusRunning: {
		StatusRunnable:               true, // Thread.SetStatus special-cases this as a true no-op (stays RUNNING)
		StatusAsyncWaiting:           true,
		StatusTerminated:             true,
		StatusBlocked:                true,
		StatusWaiting:                true,
		StatusTimedWaiting:           true,
		StatusParked:                 true,
		StatusUninterruptablyBlocked: true,
	},
	StatusAsyncWaiting: {
		StatusRunnable:   true,
		StatusTerminated: true,
	},
	StatusBlocked: {
		StatusRunnable: true,
	},
	StatusParked: {
		StatusRunnable: true,
	},
	StatusWaiting: {
		StatusRunnable:               true,
		StatusUninterruptablyBlocked: true,
	},
	StatusTimedWaiting: {
		StatusRunnable:               true,
		StatusUninterruptablyBlocked: true,
	},
	StatusUninterruptablyBlocked: {
		StatusRunnable: true,
	},
	StatusTerminated: {
		StatusNew:          true,
		StatusRunnable:     true,
		StatusAsyncWaiting: true,
	},
}

// IsPermittedTransition reports whether moving from `from` to `to` is one of
// the edges in the state machine, including the RUNNING->RUNNABLE edge that
// Thread.SetStatus treats as "ignored, stays RUNNING".
func IsPermittedTransition(from, to Status) bool {
	if from == to {
		// Every status may be "transitioned" to itself trivially; the table
		// holds no self edges, so these are accepted here as no-ops and
		// idempotent callers don't need a check.
		return true
	}
	row, ok := transitions[from]
	if !ok {
		return false
	}
	return row[to]
}

// InvalidTransitionError is raised (debug builds only, see AssertTransitions)
// when code attempts a transition absent from the state table.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("corevm/thread: illegal status transition %s -> %s", e.From, e.To)
}

// AssertTransitions gates the debug-only invariant checking described in
// section 7.2 of the design (elided in release builds). It defaults to true;
// production embedders that have validated their call sites may flip it off
// for the small dispatch saving.
var AssertTransitions = true
