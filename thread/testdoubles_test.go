package thread

import "time"

// syncTicker runs deferred work immediately and synchronously, so any Defer
// a deferred call makes runs nested inside it. Safe only for tests whose
// chain of nested Defer calls ends on its own (e.g. threads that leave
// RUNNABLE after one turn); anything that keeps rescheduling (round-robin
// over several ticks) must use queueTicker instead to avoid unbounded
// recursion.
type syncTicker struct{}

func (syncTicker) Defer(fn func()) { fn() }

// queueTicker models a real host event loop's tick boundary: Defer enqueues
// work instead of running it inline, so a chain of self-rescheduling
// scheduler decisions unwinds the call stack between ticks the way it
// would against a real event loop. Tests drain it explicitly with Step/
// Drain instead of relying on synchronous recursion.
type queueTicker struct {
	queue []func()
}

func (q *queueTicker) Defer(fn func()) {
	q.queue = append(q.queue, fn)
}

// Step runs exactly one queued task, if any, and reports whether it did.
func (q *queueTicker) Step() bool {
	if len(q.queue) == 0 {
		return false
	}
	next := q.queue[0]
	q.queue = q.queue[1:]
	next()
	return true
}

// Drain runs up to n queued tasks (fewer if the queue empties first),
// returning how many actually ran.
func (q *queueTicker) Drain(n int) int {
	ran := 0
	for ran < n && q.Step() {
		ran++
	}
	return ran
}

// fakeClock lets tests control the passage of time the adaptive budget
// observes (spec.md section 4.5) without sleeping. Each call to Now
// advances the clock by Step.
type fakeClock struct {
	base time.Time
	Step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.base = c.base.Add(c.Step)
	return c.base
}

// fakeJavaThreadBridge is a minimal JavaThreadBridge recording the last
// status written and any dispatched uncaught exception.
type fakeJavaThreadBridge struct {
	status            int32
	daemon            bool
	uncaught          any
	uncaughtCallCount int
}

func (b *fakeJavaThreadBridge) ThreadStatus() int32     { return b.status }
func (b *fakeJavaThreadBridge) SetThreadStatus(v int32) { b.status = v }
func (b *fakeJavaThreadBridge) Daemon() bool            { return b.daemon }
func (b *fakeJavaThreadBridge) DispatchUncaughtException(exc any) {
	b.uncaught = exc
	b.uncaughtCallCount++
}
func (b *fakeJavaThreadBridge) GetMonitor() Monitor { return nil }

// fakeMonitor is a simple Monitor double: entry succeeds immediately unless
// held is true, in which case it blocks until the holder calls Exit, which
// hands the lock to the first pending onAcquire.
type fakeMonitor struct {
	held      bool
	pending   []func()
	exitCalls int
}

func (m *fakeMonitor) Enter(th *Thread, onAcquire func()) bool {
	if !m.held {
		m.held = true
		return true
	}
	m.pending = append(m.pending, onAcquire)
	return false
}

func (m *fakeMonitor) Exit(th *Thread) {
	m.exitCalls++
	if len(m.pending) > 0 {
		next := m.pending[0]
		m.pending = m.pending[1:]
		next()
		return
	}
	m.held = false
}

func (m *fakeMonitor) NotifyAll(th *Thread)      {}
func (m *fakeMonitor) IsWaiting(th *Thread) bool      { return false }
func (m *fakeMonitor) IsTimedWaiting(th *Thread) bool { return false }
func (m *fakeMonitor) IsBlocked(th *Thread) bool      { return len(m.pending) > 0 }

// fakeResolvedClass is a minimal ResolvedClass for exception-handler tests.
type fakeResolvedClass string

func (c fakeResolvedClass) Name() string { return string(c) }
func (c fakeResolvedClass) IsAssignableFrom(other ResolvedClass) bool {
	return string(c) == other.Name()
}

// fakeException implements classifiedException for ScheduleException tests.
type fakeException struct {
	class ResolvedClass
}

func (e fakeException) ExceptionClass() ResolvedClass { return e.class }

// fakeClassLoader resolves a fixed set of classes synchronously or records
// an async resolution request for the test to drive manually.
type fakeClassLoader struct {
	resolved map[string]ResolvedClass

	lastResolveNames []string
	lastCallback     func(ok bool)

	// resolveClassesHook, when set, is invoked on every ResolveClasses call
	// in addition to recording lastResolveNames/lastCallback, so tests can
	// count calls without replacing the whole double.
	resolveClassesHook func(names []string)
}

func newFakeClassLoader() *fakeClassLoader {
	return &fakeClassLoader{resolved: map[string]ResolvedClass{}}
}

func (l *fakeClassLoader) GetResolvedClass(name string) (ResolvedClass, bool) {
	c, ok := l.resolved[name]
	return c, ok
}

func (l *fakeClassLoader) GetInitializedClass(th *Thread, name string) (ResolvedClass, bool) {
	return l.GetResolvedClass(name)
}

func (l *fakeClassLoader) ResolveClasses(th *Thread, names []string, callback func(ok bool)) {
	l.lastResolveNames = names
	l.lastCallback = callback
	if l.resolveClassesHook != nil {
		l.resolveClassesHook(names)
	}
}

func (l *fakeClassLoader) InitializeClass(th *Thread, name string, callback func(err error)) {
	callback(nil)
}

// fakeCode is a minimal CodeAttribute double.
type fakeCode struct {
	code  []byte
	table []ExceptionTableEntry
}

func (c *fakeCode) Code() []byte                      { return c.code }
func (c *fakeCode) ExceptionTable() []ExceptionTableEntry { return c.table }
func (c *fakeCode) MaxStack() int                     { return 8 }
func (c *fakeCode) MaxLocals() int                    { return 8 }

// fakeMethod is a minimal MethodMetadata double.
type fakeMethod struct {
	name          string
	synchronized  bool
	returnDesc    string
	loader        ClassLoader
	lock          Monitor
	nativeFn      NativeFunction
}

func (m *fakeMethod) Name() string             { return m.name }
func (m *fakeMethod) Descriptor() string       { return "()" + m.returnDesc }
func (m *fakeMethod) ReturnDescriptor() string { return m.returnDesc }
func (m *fakeMethod) IsNative() bool           { return m.nativeFn != nil }
func (m *fakeMethod) IsAbstract() bool         { return false }
func (m *fakeMethod) IsSynchronized() bool     { return m.synchronized }
func (m *fakeMethod) IsInterface() bool        { return false }
func (m *fakeMethod) ClassLoader() ClassLoader { return m.loader }
func (m *fakeMethod) CodeAttribute() (CodeAttribute, bool) { return nil, false }
func (m *fakeMethod) MethodLock(th *Thread, frame *BytecodeFrame) Monitor { return m.lock }
func (m *fakeMethod) NativeFunction() (NativeFunction, bool) {
	if m.nativeFn == nil {
		return nil, false
	}
	return m.nativeFn, true
}
func (m *fakeMethod) ConvertArgs(th *Thread, args []any) []any { return args }

// fakeOpcodeTable dispatches by opcode value to hand-registered funcs, for
// tests that need a tiny bytecode loop.
type fakeOpcodeTable struct {
	fns map[uint8]OpcodeFunc
}

func newFakeOpcodeTable() *fakeOpcodeTable {
	return &fakeOpcodeTable{fns: map[uint8]OpcodeFunc{}}
}

func (t *fakeOpcodeTable) register(op uint8, fn OpcodeFunc) { t.fns[op] = fn }

func (t *fakeOpcodeTable) Dispatch(op uint8) (OpcodeFunc, bool) {
	fn, ok := t.fns[op]
	return fn, ok
}
