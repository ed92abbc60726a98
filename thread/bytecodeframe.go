package thread

// invokewidth.go supplies invokeWidthAt; declared there so the
// opcode-layout data stays in one place.

// BytecodeFrame executes a method whose body is JVM bytecode (spec.md
// section 4.2). It owns the program counter, operand stack, locals, the
// synchronized-method lock flag, and the return-to-loop signal bit.
type BytecodeFrame struct {
	Method MethodMetadata
	Code   CodeAttribute

	PC     int
	Stack  []any
	Locals []any

	// ReturnToThreadLoop is set by opcodes that suspend or throw, and
	// cleared on entry to Run.
	ReturnToThreadLoop bool

	// LockedMethodLock is true once synchronized entry has succeeded. See
	// DESIGN.md for the resolution of spec.md section 9's open question on
	// when exactly this flips true.
	LockedMethodLock bool

	table   OpcodeTable
	monitor Monitor

	// failedCatchTypes memoizes, per frame, the catch types whose async
	// resolution has already failed once, so ScheduleException does not
	// retry them forever (spec.md section 4.2).
	failedCatchTypes map[string]bool
}

// NewBytecodeFrame constructs a frame ready to begin execution at pc 0.
func NewBytecodeFrame(method MethodMetadata, code CodeAttribute, table OpcodeTable, locals []any) *BytecodeFrame {
	return &BytecodeFrame{
		Method: method,
		Code:   code,
		Locals: locals,
		table:  table,
	}
}

var _ Frame = (*BytecodeFrame)(nil)

func (f *BytecodeFrame) Run(th *Thread) {
	if f.PC == 0 && f.Method.IsSynchronized() && !f.LockedMethodLock {
		monitor := f.Method.MethodLock(th, f)
		f.monitor = monitor
		acquired := monitor.Enter(th, func() {
			f.LockedMethodLock = true
			th.SetStatus(StatusRunnable)
		})
		if !acquired {
			th.SetStatus(StatusBlocked)
			return
		}
		f.LockedMethodLock = true
	}

	f.ReturnToThreadLoop = false
	code := f.Code.Code()
	for !f.ReturnToThreadLoop {
		opcode := code[f.PC]
		fn, ok := f.table.Dispatch(opcode)
		if !ok {
			panic(&InvalidResumeError{Detail: "no opcode handler registered", Opcode: opcode})
		}
		fn(th, f, code, f.PC)
	}
}

func (f *BytecodeFrame) ScheduleResume(th *Thread, rv, rv2 any) {
	width, ok := invokeWidthAt(f.Code.Code(), f.PC)
	if !ok {
		if AssertTransitions {
			panic(&InvalidResumeError{Detail: "schedule_resume from a non-invoke opcode"})
		}
		return
	}
	f.PC += width
	if rv != nil {
		f.Stack = append(f.Stack, rv)
	}
	if rv2 != nil {
		f.Stack = append(f.Stack, rv2)
	}
}

func (f *BytecodeFrame) ScheduleException(th *Thread, exc any) bool {
	table := f.Code.ExceptionTable()
	for _, entry := range table {
		if f.PC < entry.StartPC || f.PC >= entry.EndPC {
			continue
		}
		if entry.CatchType == "" {
			return f.handleAt(entry.HandlerPC, exc)
		}

		loader := f.Method.ClassLoader()
		resolved, ok := loader.GetResolvedClass(entry.CatchType)
		if !ok {
			if f.failedCatchTypes[entry.CatchType] {
				continue
			}
			f.resolveCatchTypesAsync(th, table, exc)
			return true
		}
		if isAssignableException(resolved, exc) {
			return f.handleAt(entry.HandlerPC, exc)
		}
	}

	if f.Method.IsSynchronized() && f.monitor != nil {
		f.monitor.Exit(th)
	}
	return false
}

func (f *BytecodeFrame) handleAt(handlerPC int, exc any) bool {
	f.Stack = f.Stack[:0]
	f.Stack = append(f.Stack, exc)
	f.PC = handlerPC
	return true
}

// resolveCatchTypesAsync collects every still-unresolved catch type in the
// table and asks the class loader to resolve them together, re-throwing the
// exception once resolution completes (spec.md section 4.2).
func (f *BytecodeFrame) resolveCatchTypesAsync(th *Thread, table []ExceptionTableEntry, exc any) {
	loader := f.Method.ClassLoader()

	var unresolved []string
	seen := map[string]bool{}
	for _, entry := range table {
		if entry.CatchType == "" || seen[entry.CatchType] || f.failedCatchTypes[entry.CatchType] {
			continue
		}
		if _, ok := loader.GetResolvedClass(entry.CatchType); ok {
			continue
		}
		seen[entry.CatchType] = true
		unresolved = append(unresolved, entry.CatchType)
	}

	th.SetStatus(StatusAsyncWaiting)
	loader.ResolveClasses(th, unresolved, func(ok bool) {
		if !ok {
			if f.failedCatchTypes == nil {
				f.failedCatchTypes = map[string]bool{}
			}
			for _, name := range unresolved {
				f.failedCatchTypes[name] = true
			}
		}
		th.ThrowException(exc)
	})
}

func (f *BytecodeFrame) StackTraceFrame() (STFrame, bool) {
	stackCopy := make([]any, len(f.Stack))
	copy(stackCopy, f.Stack)
	localsCopy := make([]any, len(f.Locals))
	copy(localsCopy, f.Locals)
	return STFrame{
		Method:     f.Method,
		PC:         f.PC,
		StackCopy:  stackCopy,
		LocalsCopy: localsCopy,
	}, true
}

// classifiedException is implemented by exception values that carry a
// resolved class, letting ScheduleException defer the object model (out of
// scope, spec.md section 1) to whatever the embedder's exception type is.
type classifiedException interface {
	ExceptionClass() ResolvedClass
}

func isAssignableException(catchType ResolvedClass, exc any) bool {
	classified, ok := exc.(classifiedException)
	if !ok {
		return false
	}
	return catchType.IsAssignableFrom(classified.ExceptionClass())
}

// NameClass is a minimal ResolvedClass carrying only a name, for
// embedders (like ThrowableError) that need to classify an exception
// without a full class-loader round trip. A real ClassLoader's
// IsAssignableFrom only needs other.Name() to look up hierarchy.
type NameClass string

func (n NameClass) Name() string { return string(n) }

func (n NameClass) IsAssignableFrom(other ResolvedClass) bool {
	return string(n) == other.Name()
}
