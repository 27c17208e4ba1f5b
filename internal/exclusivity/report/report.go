// Package report formats and delivers an exclusivity conflict. The
// AccessInfo/stack-capture shape mirrors a conventional race-report
// formatter (build one AccessInfo per side, capture a live backtrace for the
// side still on the stack); the message wording and two-part structure
// follow Exclusivity.cpp's reportExclusivityConflict ("Simultaneous accesses
// to ADDR, but modification requires exclusive access."). Unlike a detector
// that only counts and logs races, a Reporter here always ends in Abort: an
// exclusivity conflict is fatal, matching the original's fatalError call.
package report

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/kolkov/exclusivity/internal/exclusivity/access"
)

const maxStackDepth = 32

// AccessInfo describes one side of a conflict.
type AccessInfo struct {
	Action     access.Action
	Pointer    uintptr
	PC         uintptr
	StackTrace []uintptr // only ever populated for the access being reported live
}

// Conflict is the two-access shape a real debugger hook would want to
// inspect programmatically, kept as a struct rather than collapsed into a
// preformatted string — the same shape as the original's RuntimeErrorDetails,
// which names two threads' worth of description rather than one blob.
type Conflict struct {
	Pointer  uintptr
	Previous AccessInfo
	Current  AccessInfo
}

// DebugNotifier is the opaque "notify a debugger" sink. A production build
// has nothing to plug in here and leaves it nil; a host embedding this
// runtime under a debugger can supply one.
type DebugNotifier func(Conflict)

// Reporter formats and delivers exclusivity conflicts. The zero value is
// usable and aborts via os.Exit after writing to os.Stderr; tests substitute
// Abort to observe the formatted Conflict without killing the test binary.
type Reporter struct {
	Writer   io.Writer
	Notifier DebugNotifier
	Abort    func(code int)
}

func (r *Reporter) writer() io.Writer {
	if r.Writer != nil {
		return r.Writer
	}
	return os.Stderr
}

func (r *Reporter) abort(code int) {
	if r.Abort != nil {
		r.Abort(code)
		return
	}
	os.Exit(code)
}

// CaptureStack grabs the calling goroutine's stack, skipping skip frames of
// its own machinery, the way Exclusivity.cpp captures a live backtrace for
// only the *current* access (the previous access only ever has a saved PC,
// not a full trace, since its own stack is long gone by the time a conflict
// is detected).
func CaptureStack(skip int) []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

func formatStackTrace(w io.Writer, pcs []uintptr) {
	if len(pcs) == 0 {
		return
	}
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(w, "    %s\n        %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
}

// Report formats c, hands it to the debug notifier if one is configured, and
// terminates the process. It never returns.
func (r *Reporter) Report(c Conflict) {
	w := r.writer()

	fmt.Fprintln(w, "==================")
	fmt.Fprintln(w, "FATAL ERROR: Simultaneous accesses to exclusively-owned storage")
	fmt.Fprintf(w, "Address: 0x%x\n", c.Pointer)
	fmt.Fprintf(w, "Previous access (a %s) started at PC 0x%x\n", c.Previous.Action, c.Previous.PC)
	fmt.Fprintf(w, "Current access (a %s) started at:\n", c.Current.Action)
	formatStackTrace(w, c.Current.StackTrace)
	fmt.Fprintln(w, "Fatal access conflict detected.")
	fmt.Fprintln(w, "==================")

	if r.Notifier != nil {
		r.Notifier(c)
	}

	r.abort(1)
}

// DumpAccesses writes every live access in set to w, one line each, in the
// original's swift_dumpTrackedAccesses style — a debug-only convenience, not
// part of the conflict path.
func DumpAccesses(w io.Writer, set *access.Set) {
	fmt.Fprintln(w, "exclusivity: tracked accesses for this goroutine:")
	set.ForEach(func(r *access.Record) {
		fmt.Fprintf(w, "  pointer=%p action=%s pc=0x%x\n", r.Pointer(), r.Action(), r.PC())
	})
}
