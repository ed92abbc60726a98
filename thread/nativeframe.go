package thread

// NativeFrame wraps a host-language function exposed as a Java method
// (spec.md section 4.3). It runs exactly once.
type NativeFrame struct {
	Method MethodMetadata
	Fn     NativeFunction
	Args   []any

	ran bool
}

// NewNativeFrame constructs a frame ready to invoke fn with args on Run.
func NewNativeFrame(method MethodMetadata, fn NativeFunction, args []any) *NativeFrame {
	return &NativeFrame{Method: method, Fn: fn, Args: args}
}

var _ Frame = (*NativeFrame)(nil)

func (f *NativeFrame) Run(th *Thread) {
	if f.ran {
		panic(&InvalidResumeError{Detail: "native frame run twice"})
	}
	f.ran = true

	rv, rv2, err := f.Fn(th, f, f.Args)
	if err != nil {
		th.ThrowException(err)
		return
	}

	// The native call may have gone async (set_status(ASYNC_WAITING) and a
	// later async_return); only treat this as a synchronous return if the
	// thread is still RUNNING atop this very frame.
	if th.Status() != StatusRunning || th.CurrentFrame() != Frame(f) {
		return
	}

	rv, rv2 = coerceNativeReturn(f.Method.ReturnDescriptor(), rv, rv2)
	th.AsyncReturn(rv, rv2)
}

// coerceNativeReturn applies the wide/boolean coercions spec.md section 4.3
// requires of a synchronous native return: J/D are two-slot, Z coerces to
// {0,1}, everything else passes through unchanged.
func coerceNativeReturn(returnDescriptor string, rv, rv2 any) (any, any) {
	switch returnDescriptor {
	case "J", "D":
		return rv, rv2
	case "Z":
		if b, ok := rv.(bool); ok {
			if b {
				return int32(1), nil
			}
			return int32(0), nil
		}
		return rv, nil
	default:
		return rv, nil
	}
}

func (f *NativeFrame) ScheduleResume(th *Thread, rv, rv2 any) {
	// No-op: a native frame is never a caller resumed by a deeper callee in
	// the sense schedule_resume models; its own return path is AsyncReturn.
}

func (f *NativeFrame) ScheduleException(th *Thread, exc any) bool {
	return false
}

func (f *NativeFrame) StackTraceFrame() (STFrame, bool) {
	return STFrame{Method: f.Method, PC: -1}, true
}
