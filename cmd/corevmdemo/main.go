// Command corevmdemo drives the thread and execution core through a toy
// scenario, in the spirit of the teacher's classfile-driven CLI: instead of
// interpreting a user-supplied .class file, it spins up a fixed pool of
// threads running a tiny hand-built method body against the opcode demo
// table, and prints status transitions as they happen.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gojvm/corevm/config"
	"github.com/gojvm/corevm/corelog"
	"github.com/gojvm/corevm/hosttick"
	"github.com/gojvm/corevm/opcode"
	"github.com/gojvm/corevm/thread"
	"github.com/joeycumines/logiface"
)

func main() {
	verbose := flag.Bool("v", false, "verbose mode - log every status transition")
	configPath := flag.String("config", "", "path to a scheduler tunables YAML file")
	numThreads := flag.Int("threads", 2, "number of demo threads to run")
	flag.Parse()

	tunables := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		tunables = loaded
	}

	log := corelog.Discard()
	if *verbose {
		log = corelog.New(os.Stderr, logiface.LevelDebug)
	}

	ticker, err := hosttick.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting event loop: %v\n", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	pool := thread.NewThreadPool(
		ticker,
		thread.SystemClock,
		log,
		tunables.ResponsivenessMS,
		tunables.InitialMaxMethodResumes,
		func() { close(done) },
		func(code int) { fmt.Printf("System.exit(%d)\n", code) },
	)

	table := opcode.NewDemoTable(noopInvoker{})
	code := []byte{
		opcode.OpBiPush, 7,
		opcode.OpIReturn,
	}

	for i := 0; i < *numThreads; i++ {
		bridge := &demoJavaThreadBridge{}
		th := thread.NewThread(int64(i), pool, bridge, nil, log)
		method := &demoMethod{name: fmt.Sprintf("demoMethod%d", i)}
		frame := thread.NewBytecodeFrame(method, &demoCode{code: code}, table, nil)
		th.PushFrame(frame)
		pool.AddThread(th)
		th.SetStatus(thread.StatusRunnable)
	}

	for _, t := range pool.Threads() {
		pool.ThreadRunnable(t)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-done
		cancel()
	}()
	if err := ticker.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running event loop: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("All demo threads terminated.")
}

type noopInvoker struct{}

func (noopInvoker) Invoke(th *thread.Thread, caller *thread.BytecodeFrame, classIndex uint16) {}

type demoMethod struct{ name string }

func (m *demoMethod) Name() string                                        { return m.name }
func (m *demoMethod) Descriptor() string                                  { return "()I" }
func (m *demoMethod) ReturnDescriptor() string                            { return "I" }
func (m *demoMethod) IsNative() bool                                      { return false }
func (m *demoMethod) IsAbstract() bool                                    { return false }
func (m *demoMethod) IsSynchronized() bool                                { return false }
func (m *demoMethod) IsInterface() bool                                   { return false }
func (m *demoMethod) ClassLoader() thread.ClassLoader                     { return nil }
func (m *demoMethod) CodeAttribute() (thread.CodeAttribute, bool)         { return nil, false }
func (m *demoMethod) MethodLock(*thread.Thread, *thread.BytecodeFrame) thread.Monitor {
	return nil
}
func (m *demoMethod) NativeFunction() (thread.NativeFunction, bool) { return nil, false }
func (m *demoMethod) ConvertArgs(*thread.Thread, []any) []any       { return nil }

type demoCode struct{ code []byte }

func (c *demoCode) Code() []byte                               { return c.code }
func (c *demoCode) ExceptionTable() []thread.ExceptionTableEntry { return nil }
func (c *demoCode) MaxStack() int                              { return 4 }
func (c *demoCode) MaxLocals() int                             { return 1 }

type demoJavaThreadBridge struct {
	status int32
	daemon bool
}

func (b *demoJavaThreadBridge) ThreadStatus() int32       { return b.status }
func (b *demoJavaThreadBridge) SetThreadStatus(v int32)   { b.status = v }
func (b *demoJavaThreadBridge) Daemon() bool              { return b.daemon }
func (b *demoJavaThreadBridge) DispatchUncaughtException(exc any) {
	fmt.Fprintf(os.Stderr, "uncaught exception: %v\n", exc)
}
func (b *demoJavaThreadBridge) GetMonitor() thread.Monitor { return nil }
