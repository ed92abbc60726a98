package nativefn

import (
	"math"

	"github.com/gojvm/corevm/hosttick"
	"github.com/gojvm/corevm/thread"
)

// RegisterBuiltins wires a small demo surface into r: one synchronous
// native (grounded on the teacher's nativeMathSqrt Newton's-method
// implementation) and one asynchronous native that exercises ASYNC_WAITING
// plus async_return through a host-tick deferral, grounded on the
// teacher's EventLoop-bridging native methods.
func RegisterBuiltins(r *Registry, ticker hosttick.Ticker) {
	r.Register("Math", "sqrt", "(D)D", nativeMathSqrt)
	r.Register("EventLoop", "submit", "(I)V", nativeEventLoopSubmit(ticker))
}

// nativeMathSqrt computes a square root via Newton's method rather than
// reaching for math.Sqrt directly, preserving the teacher's
// demonstrate-the-algorithm style for a native this simple; real corevm
// embedders would more likely delegate straight to the host math library.
func nativeMathSqrt(th *thread.Thread, frame *thread.NativeFrame, args []any) (any, any, error) {
	x := args[0].(float64)
	if x < 0 {
		return nil, nil, &thread.ThrowableError{ClassName: "java/lang/ArithmeticException", Message: "sqrt of negative number"}
	}
	if x == 0 {
		return 0.0, nil, nil
	}
	guess := x
	for i := 0; i < 40; i++ {
		next := 0.5 * (guess + x/guess)
		if math.Abs(next-guess) < 1e-15 {
			guess = next
			break
		}
		guess = next
	}
	return guess, nil, nil
}

// nativeEventLoopSubmit bridges java.lang "EventLoop.submit(int taskId)" to
// a deferred host-tick callback, returning the scheduler to normal flow via
// async_return once the host has actually run the task (grounded on the
// teacher's eventloop_native.go bridging style, now wired to the real
// github.com/joeycumines/go-eventloop dependency via hosttick instead of a
// hand-rolled loop).
func nativeEventLoopSubmit(ticker hosttick.Ticker) thread.NativeFunction {
	return func(th *thread.Thread, frame *thread.NativeFrame, args []any) (any, any, error) {
		taskID := args[0].(int32)
		th.SetStatus(thread.StatusAsyncWaiting)
		ticker.Defer(func() {
			th.AsyncReturn(taskID, nil)
		})
		// Synchronous return values are ignored by the frame once the
		// thread has already left RUNNING (see NativeFrame.Run).
		return nil, nil, nil
	}
}
