package thread

import (
	"time"

	"github.com/gojvm/corevm/corelog"
)

// Ticker is the narrow event-loop-deferral contract the pool needs; see
// package hosttick for the production implementation wrapping
// github.com/joeycumines/go-eventloop. Declared here (not imported from
// hosttick) to keep this package free of the dependency on the concrete
// event loop.
type Ticker interface {
	Defer(fn func())
}

// schedulerBudget holds the adaptive max_method_resumes / n_samples pair,
// re-scoped onto the pool per spec.md section 9 rather than left as process
// globals.
type schedulerBudget struct {
	responsivenessMS int64
	maxMethodResumes int64
	nSamples         int64
}

func (b *schedulerBudget) recordSample(dur time.Duration) {
	durMS := dur.Milliseconds()
	if durMS <= 0 {
		durMS = 1
	}
	estimate := (b.maxMethodResumes * b.responsivenessMS) / durMS
	b.maxMethodResumes = (estimate + b.nSamples*b.maxMethodResumes) / (b.nSamples + 1)
	if b.maxMethodResumes <= 0 {
		b.maxMethodResumes = 1
	}
	b.nSamples++
}

// ThreadPool owns all threads, picks the next runnable thread via
// round-robin, handles park/unpark counts, and triggers JVM shutdown when
// no non-daemon schedulable thread remains (spec.md sections 3 and 4.8).
type ThreadPool struct {
	threads      []*Thread
	runningThread *Thread
	runningIndex int

	parkCounts map[int64]int64

	ticker      Ticker
	clock       Clock
	log         corelog.Logger
	budget      schedulerBudget

	emptyCallback func()
	inShutdown    bool
	jvmExit       func(code int)
}

// NewThreadPool constructs an empty pool. responsivenessMS and
// initialMaxMethodResumes come from config.Tunables (spec.md section 4.5).
func NewThreadPool(ticker Ticker, clock Clock, log corelog.Logger, responsivenessMS, initialMaxMethodResumes int64, emptyCallback func(), jvmExit func(code int)) *ThreadPool {
	return &ThreadPool{
		parkCounts:    map[int64]int64{},
		ticker:        ticker,
		clock:         clock,
		log:           log,
		budget:        schedulerBudget{responsivenessMS: responsivenessMS, maxMethodResumes: initialMaxMethodResumes},
		emptyCallback: emptyCallback,
		jvmExit:       jvmExit,
	}
}

// AddThread registers t with the pool, appending it to the round-robin
// order.
func (p *ThreadPool) AddThread(t *Thread) {
	t.pool = p
	p.threads = append(p.threads, t)
}

func (p *ThreadPool) RunningThread() *Thread { return p.runningThread }
func (p *ThreadPool) Threads() []*Thread {
	out := make([]*Thread, len(p.threads))
	copy(out, p.threads)
	return out
}

// ThreadRunnable implements spec.md section 4.8: if no thread is currently
// RUNNING, schedule the next one.
func (p *ThreadPool) ThreadRunnable(t *Thread) { p.threadRunnable(t) }

func (p *ThreadPool) threadRunnable(t *Thread) {
	if p.runningThread == nil {
		p.scheduleNextThread()
	}
}

// ScheduleNextThread implements spec.md section 4.8. It always defers to
// the next host tick before scanning, so that servicing host I/O and
// bounding stack depth hold even under a storm of runnable threads.
func (p *ThreadPool) ScheduleNextThread() { p.scheduleNextThread() }

func (p *ThreadPool) scheduleNextThread() {
	p.ticker.Defer(func() {
		n := len(p.threads)
		if n == 0 {
			return
		}
		for i := 1; i <= n; i++ {
			idx := (p.runningIndex + i) % n
			candidate := p.threads[idx]
			if candidate.Status() == StatusRunnable {
				p.runningIndex = idx
				p.runningThread = candidate
				candidate.SetStatus(StatusRunning)
				candidate.RunLoop(&p.budget, p.clock, func(fn func()) { p.ticker.Defer(fn) })
				if candidate.Status() != StatusRunning {
					p.threadSuspended(candidate)
				}
				return
			}
		}
		// No candidate found; the pool goes idle until an external async
		// event produces a RUNNABLE thread. This is explicitly legal.
	})
}

// ThreadSuspended implements spec.md section 4.8.
func (p *ThreadPool) ThreadSuspended(t *Thread) { p.threadSuspended(t) }

func (p *ThreadPool) threadSuspended(t *Thread) {
	if p.runningThread == t {
		p.runningThread = nil
	}
	if t.Status() == StatusTerminated {
		p.threadTerminated(t)
		return
	}
	p.scheduleNextThread()
}

// ThreadTerminated implements spec.md section 4.8.
func (p *ThreadPool) ThreadTerminated(t *Thread) { p.threadTerminated(t) }

func (p *ThreadPool) threadTerminated(t *Thread) {
	for i, candidate := range p.threads {
		if candidate == t {
			p.threads = append(p.threads[:i], p.threads[i+1:]...)
			// Removing index i shifts every later thread down by one slot,
			// so runningIndex must shift with it whenever i <= runningIndex
			// (including i == runningIndex, the removed thread having been
			// the one that just ran) to keep scheduleNextThread's
			// (runningIndex+1)%n scan resuming at the right successor.
			// Wrap with modulo rather than flooring at zero, or a removal
			// at index 0 leaves runningIndex stuck and skips whichever
			// thread should run next.
			if i <= p.runningIndex {
				if n := len(p.threads); n > 0 {
					p.runningIndex = (p.runningIndex - 1 + n) % n
				} else {
					p.runningIndex = 0
				}
			}
			break
		}
	}
	if p.runningThread == t {
		p.runningThread = nil
	}

	if p.hasSchedulableNonDaemon() {
		p.scheduleNextThread()
		return
	}

	if !p.inShutdown {
		p.inShutdown = true
		if p.jvmExit != nil {
			p.jvmExit(0)
		}
	} else if p.emptyCallback != nil {
		p.emptyCallback()
	}
}

func (p *ThreadPool) hasSchedulableNonDaemon() bool {
	for _, t := range p.threads {
		if t.Daemon() {
			continue
		}
		switch t.Status() {
		case StatusNew, StatusTerminated:
			continue
		default:
			return true
		}
	}
	return false
}

// Park implements spec.md section 4.8: a signed balance so an unpark
// arriving before the matching park cancels it out (HotSpot-compatible).
func (p *ThreadPool) Park(t *Thread) {
	p.parkCounts[t.id]++
	if p.parkCounts[t.id] > 0 {
		t.SetStatus(StatusParked)
	}
}

// Unpark decrements the park balance; a count reaching <= 0 makes the
// thread RUNNABLE again.
func (p *ThreadPool) Unpark(t *Thread) {
	p.parkCounts[t.id]--
	if p.parkCounts[t.id] <= 0 && t.Status() == StatusParked {
		t.SetStatus(StatusRunnable)
		p.threadRunnable(t)
	}
}

// CompletelyUnpark forces the park balance to zero and the thread RUNNABLE.
func (p *ThreadPool) CompletelyUnpark(t *Thread) {
	p.parkCounts[t.id] = 0
	if t.Status() == StatusParked {
		t.SetStatus(StatusRunnable)
		p.threadRunnable(t)
	}
}

// ParkCount returns the current signed park balance for t, for tests.
func (p *ThreadPool) ParkCount(t *Thread) int64 {
	return p.parkCounts[t.id]
}
