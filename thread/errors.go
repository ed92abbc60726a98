package thread

import "fmt"

// InvalidResumeError guards the debug-only invariants of spec.md section
// 7.2: resuming from a non-invoke opcode, calling async_return/
// throw_exception from the wrong status, or running a native frame twice.
type InvalidResumeError struct {
	Detail string
	Opcode uint8
}

func (e *InvalidResumeError) Error() string {
	if e.Opcode != 0 {
		return fmt.Sprintf("corevm/thread: invalid resume: %s (opcode %d)", e.Detail, e.Opcode)
	}
	return fmt.Sprintf("corevm/thread: invalid resume: %s", e.Detail)
}

// IllegalMonitorStateError mirrors java.lang.IllegalMonitorStateException
// for Monitor implementations; the monitor service is an external
// collaborator (spec.md section 1) and nothing in this module implements
// it, but its errors still need to travel through throw_exception as
// ordinary Go errors.
type IllegalMonitorStateError struct {
	Detail string
}

func (e *IllegalMonitorStateError) Error() string {
	return "IllegalMonitorStateException: " + e.Detail
}

// ThrowableError adapts a Go error into the minimal shape throw_exception
// expects for a convenience Java-level throw: a class name and a message.
// A native function may return one as its error (nativefn's Math.sqrt does
// for a negative argument); NativeFrame.Run then throws it like any other
// error. ThrowNewException does not construct one itself.
type ThrowableError struct {
	ClassName string
	Message   string
}

func (e *ThrowableError) Error() string {
	return fmt.Sprintf("%s: %s", e.ClassName, e.Message)
}

func (e *ThrowableError) ExceptionClass() ResolvedClass { return NameClass(e.ClassName) }
