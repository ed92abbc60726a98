// Package corelog wraps the generics-based logiface facade with the
// stumpy JSON backend, so the rest of corevm depends on a single narrow
// Logger type rather than on the concrete backend.
package corelog

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the logging handle threaded through the scheduler and thread
// execution loop. The zero value is a safe, disabled logger.
type Logger struct {
	l *logiface.Logger[*stumpy.Event]
}

// New builds a Logger writing newline-delimited JSON to w at minLevel and
// above, via logiface-stumpy's factory.
func New(w io.Writer, minLevel logiface.Level) Logger {
	l := logiface.New[*stumpy.Event](
		logiface.WithLevel[*stumpy.Event](minLevel),
		stumpy.WithStumpy(stumpy.WithWriter(w)),
	)
	return Logger{l: l}
}

// Default returns a Logger writing to stderr at Notice and above, the
// level the teacher's CLI demo uses for operational output.
func Default() Logger {
	return New(os.Stderr, logiface.LevelNotice)
}

// Discard returns a Logger that drops everything; used by tests and any
// caller that does not want scheduler/thread diagnostics.
func Discard() Logger {
	return Logger{}
}

// Enabled reports whether this Logger will do any work; callers on hot
// paths (the thread execution loop) should guard field construction with
// it the way logiface's own Builder.Enabled does.
func (lg Logger) Enabled() bool {
	return lg.l != nil
}

// Builder is the subset of logiface's context Builder that corevm's call
// sites use.
type Builder struct {
	b *logiface.Builder[*stumpy.Event]
}

func (b Builder) Str(key, val string) Builder {
	if b.b == nil {
		return b
	}
	return Builder{b: b.b.Str(key, val)}
}

func (b Builder) Int64(key string, val int64) Builder {
	if b.b == nil {
		return b
	}
	return Builder{b: b.b.Int(key, int(val))}
}

func (b Builder) Int(key string, val int) Builder {
	if b.b == nil {
		return b
	}
	return Builder{b: b.b.Int(key, val)}
}

func (b Builder) Err(err error) Builder {
	if b.b == nil {
		return b
	}
	return Builder{b: b.b.Err(err)}
}

func (b Builder) Log(msg string) {
	if b.b == nil {
		return
	}
	b.b.Log(msg)
}

func (lg Logger) Debug() Builder {
	if lg.l == nil {
		return Builder{}
	}
	return Builder{b: lg.l.Debug()}
}

func (lg Logger) Info() Builder {
	if lg.l == nil {
		return Builder{}
	}
	return Builder{b: lg.l.Info()}
}

func (lg Logger) Notice() Builder {
	if lg.l == nil {
		return Builder{}
	}
	return Builder{b: lg.l.Notice()}
}

func (lg Logger) Warning() Builder {
	if lg.l == nil {
		return Builder{}
	}
	return Builder{b: lg.l.Warning()}
}

func (lg Logger) Err() Builder {
	if lg.l == nil {
		return Builder{}
	}
	return Builder{b: lg.l.Err()}
}
