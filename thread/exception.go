package thread

// ThrowNewException is the convenience helper of spec.md section 7.1: if
// className is already initialized, construct and throw immediately; else
// move the thread to ASYNC_WAITING, initialize the class, then construct
// and throw on the init callback. If the constructor call itself throws,
// that inner exception replaces the outer one.
//
// construct builds the exception value once the class is known to be
// initialized. If constructing the exception object (the `<init>` call)
// fails, construct returns that failure as err and ThrowNewException throws
// it in place of the new exception.
func ThrowNewException(th *Thread, loader ClassLoader, className, message string, construct func(th *Thread, className, message string) (exc any, err error)) {
	if _, ok := loader.GetInitializedClass(th, className); ok {
		throwConstructed(th, className, message, construct)
		return
	}

	th.SetStatus(StatusAsyncWaiting)
	loader.InitializeClass(th, className, func(err error) {
		if err != nil {
			// The inner exception (failure to initialize) replaces the
			// outer one entirely, per spec.md section 7.1.
			th.ThrowException(err)
			return
		}
		throwConstructed(th, className, message, construct)
	})
}

func throwConstructed(th *Thread, className, message string, construct func(th *Thread, className, message string) (exc any, err error)) {
	exc, err := construct(th, className, message)
	if err != nil {
		th.ThrowException(err)
		return
	}
	th.ThrowException(exc)
}
