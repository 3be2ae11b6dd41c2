package hal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type hostLogger struct {
	mu   sync.Mutex
	w    io.Writer
	warn *color.Color
	err  *color.Color
}

// NewLogger returns a Logger that writes lines to w.
//
// Lines starting with "ERROR:" or "WARN:" get their prefix colored when w is
// a terminal and color.NoColor is unset.
func NewLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := &hostLogger{
		w:    w,
		warn: color.New(color.FgYellow, color.Bold),
		err:  color.New(color.FgRed, color.Bold),
	}
	if !isTerminal(w) {
		l.warn.DisableColor()
		l.err.DisableColor()
	}
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case strings.HasPrefix(s, "ERROR:"):
		fmt.Fprintln(l.w, l.err.Sprint("ERROR:")+s[len("ERROR:"):])
	case strings.HasPrefix(s, "WARN:"):
		fmt.Fprintln(l.w, l.warn.Sprint("WARN:")+s[len("WARN:"):])
	default:
		fmt.Fprintln(l.w, s)
	}
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}
