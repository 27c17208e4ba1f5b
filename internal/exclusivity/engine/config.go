// Package engine implements Components D, E and G: the Begin/End entry
// points, the task push/pop protocol, and the process-wide configuration
// that wires a Reporter and a TLS strategy together. Grounded on the
// teacher's internal/race/api/race.go for the enabled-flag fast path and the
// Init/Fini/Enable/Disable/Reset shape, and on Exclusivity.cpp for the
// Begin/End and push/pop algorithms themselves (see task.go).
package engine

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/kolkov/exclusivity/internal/exclusivity/report"
	"github.com/kolkov/exclusivity/internal/exclusivity/tlscontext"
)

var (
	enabled       atomic.Bool
	reporter      atomic.Pointer[report.Reporter]
	conflictCount atomic.Uint64
)

// Option configures the engine at Init time.
type Option func(*report.Reporter)

// WithNotifier installs a debug-notifier sink, the opaque "notify a
// debugger" collaborator Exclusivity.cpp calls _swift_reportToDebugger.
func WithNotifier(fn report.DebugNotifier) Option {
	return func(r *report.Reporter) { r.Notifier = fn }
}

// WithAbort overrides how a fatal conflict terminates the process. Tests use
// this to observe a conflict without killing the test binary; production
// code should never need it (the default is os.Exit).
func WithAbort(fn func(code int)) Option {
	return func(r *report.Reporter) { r.Abort = fn }
}

// WithSingleThreaded selects the single-static-context TLS strategy instead
// of the goroutine-ID-keyed table, for embedders known never to touch
// tracked storage from more than one goroutine.
func WithSingleThreaded() Option {
	return func(*report.Reporter) { tlscontext.EnableSingleThreaded() }
}

// Init brings the engine up: it resets all counters, applies opts, and
// reads EXCLUSIVITY_DISABLED so a release build can turn checking off
// without a recompile, the Go analogue of the original runtime's
// disableExclusivityChecking flag. Init is idempotent.
func Init(opts ...Option) {
	r := &report.Reporter{}
	for _, opt := range opts {
		opt(r)
	}
	reporter.Store(r)
	conflictCount.Store(0)
	tlscontext.Reset()

	if os.Getenv("EXCLUSIVITY_DISABLED") == "1" {
		enabled.Store(false)
	} else {
		enabled.Store(true)
	}
}

// Fini finalizes the engine and prints a one-line summary, mirroring the
// teacher's race.Fini report style. Since a conflict is fatal by default,
// reaching Fini at all means either no conflict ever happened, or the
// Reporter's Abort was overridden (as tests do).
func Fini() {
	enabled.Store(false)
	n := conflictCount.Load()
	if n == 0 {
		fmt.Fprintln(os.Stderr, "==================\nExclusivity Report\n==================\nNo conflicts detected.\n==================")
		return
	}
	fmt.Fprintf(os.Stderr, "==================\nExclusivity Report\n==================\n%d conflict(s) detected.\n==================\n", n)
}

// Enable turns checking on process-wide.
func Enable() { enabled.Store(true) }

// Disable turns checking off process-wide; every BeginAccess afterward takes
// the fast "untracked" path.
func Disable() { enabled.Store(false) }

// Enabled reports the current process-wide checking state.
func Enabled() bool { return enabled.Load() }

func currentReporter() *report.Reporter {
	r := reporter.Load()
	if r == nil {
		r = &report.Reporter{}
		reporter.Store(r)
	}
	return r
}
