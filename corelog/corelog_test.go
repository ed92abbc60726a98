package corelog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
)

func TestDiscardLoggerIsSafeAndDisabled(t *testing.T) {
	lg := Discard()
	if lg.Enabled() {
		t.Fatal("Discard() logger should report Enabled() == false")
	}
	// None of these should panic even though the underlying *Logger is nil.
	lg.Debug().Str("k", "v").Int("n", 1).Int64("n64", 2).Err(errors.New("boom")).Log("ignored")
	lg.Info().Log("ignored")
	lg.Notice().Log("ignored")
	lg.Warning().Log("ignored")
	lg.Err().Log("ignored")
}

func TestNewLoggerWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, logiface.LevelDebug)
	if !lg.Enabled() {
		t.Fatal("expected a logger built with New to be Enabled()")
	}

	lg.Notice().Str("thread", "1").Log("status transition")

	if buf.Len() == 0 {
		t.Fatal("expected New's logger to write something to the provided writer")
	}
	if !strings.Contains(buf.String(), "status transition") {
		t.Errorf("output = %q, want it to contain the logged message", buf.String())
	}
}

func TestLevelBelowMinimumIsSuppressed(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, logiface.LevelNotice)

	lg.Debug().Log("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected nothing written below the configured level, got %q", buf.String())
	}
}
