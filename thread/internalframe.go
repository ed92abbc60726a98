package thread

// InternalFrame is a synthetic frame used to re-enter host code when a Java
// invocation finishes (spec.md section 4.4). It is never visible in stack
// traces and cannot itself handle an exception thrown during its own
// execution: the unwinder pops a leading internal frame before continuing.
type InternalFrame struct {
	Callback func(exc any, value any)

	isException bool
	value       any
}

// NewInternalFrame constructs a frame that invokes callback on Run.
func NewInternalFrame(callback func(exc any, value any)) *InternalFrame {
	return &InternalFrame{Callback: callback}
}

var _ Frame = (*InternalFrame)(nil)

func (f *InternalFrame) Run(th *Thread) {
	th.popFrame()
	th.SetStatus(StatusAsyncWaiting)
	if f.isException {
		f.Callback(f.value, nil)
	} else {
		f.Callback(nil, f.value)
	}
}

func (f *InternalFrame) ScheduleResume(th *Thread, rv, rv2 any) {
	f.isException = false
	f.value = rv
}

func (f *InternalFrame) ScheduleException(th *Thread, exc any) bool {
	f.isException = true
	f.value = exc
	return true
}

func (f *InternalFrame) StackTraceFrame() (STFrame, bool) {
	return STFrame{}, false
}
