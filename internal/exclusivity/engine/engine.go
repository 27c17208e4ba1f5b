package engine

import (
	"os"
	"runtime"
	"unsafe"

	"github.com/kolkov/exclusivity/internal/exclusivity/access"
	"github.com/kolkov/exclusivity/internal/exclusivity/assert"
	"github.com/kolkov/exclusivity/internal/exclusivity/report"
	"github.com/kolkov/exclusivity/internal/exclusivity/tlscontext"
	"github.com/kolkov/exclusivity/internal/exclusivity/tracelog"
)

// BeginAccess is Component D's entry point. pointer must not be nil. record
// is the caller-owned scratch value that the paired EndAccess call will use
// to find its way back to the right access set. If pc is zero, BeginAccess
// substitutes its caller's return address, matching the original's
// get_return_address() fallback.
func BeginAccess(pointer unsafe.Pointer, record *access.Record, flags access.Flags, pc uintptr) {
	assert.Require(pointer != nil, "BeginAccess called with a nil pointer")

	if !Enabled() {
		record.MarkUntracked()
		return
	}
	if pc == 0 {
		pc = callerPC()
	}

	ctx := tlscontext.Current()
	conflict, inserted := ctx.Accesses.Insert(record, pointer, pc, flags)
	if conflict != nil {
		reportConflict(pointer, conflict, record, flags, pc)
		return
	}
	if !inserted {
		record.MarkUntracked()
	}

	tracelog.Tracef("begin pointer=%p action=%s pc=0x%x tracked=%v", pointer, flags.Action(), pc, inserted)
}

// EndAccess is Component D's other half. A record whose Pointer() is nil —
// because checking was disabled, the access was declined, or a conflict
// already aborted the process — makes EndAccess a no-op.
func EndAccess(record *access.Record) {
	if record.Pointer() == nil {
		return
	}
	ctx := tlscontext.Current()
	if !ctx.Accesses.Remove(record) {
		assert.Fail("access not found in set")
	}
	tracelog.Tracef("end pointer=%p", record.Pointer())
}

func reportConflict(pointer unsafe.Pointer, prior *access.Record, current *access.Record, flags access.Flags, pc uintptr) {
	conflictCount.Add(1)
	current.MarkUntracked() // never linked in; paired EndAccess must be a no-op

	currentReporter().Report(report.Conflict{
		Pointer: uintptr(pointer),
		Previous: report.AccessInfo{
			Action: prior.Action(),
			PC:     prior.PC(),
		},
		Current: report.AccessInfo{
			Action:     flags.Action(),
			PC:         pc,
			StackTrace: report.CaptureStack(2),
		},
	})
}

func callerPC() uintptr {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return 0
	}
	return pc
}

// DumpTrackedAccesses writes the calling goroutine's live access set to
// stderr, matching swift_dumpTrackedAccesses's debug-only convenience.
func DumpTrackedAccesses() {
	ctx := tlscontext.Current()
	report.DumpAccesses(os.Stderr, &ctx.Accesses)
}

// GetFunctionReplacement is the Go rendition of
// swift_getFunctionReplacement: replacement and current identify a function
// by address; if they already name the same function, or the current
// goroutine has asked (via GetOriginalOfReplaceable) to run the original
// exactly once, current is returned instead of replacement.
func GetFunctionReplacement(replacement, current unsafe.Pointer) unsafe.Pointer {
	if replacement == current {
		return current
	}
	ctx := tlscontext.Current()
	if ctx.CallOriginalOfReplacedFunction {
		ctx.CallOriginalOfReplacedFunction = false
		return current
	}
	return replacement
}

// GetOriginalOfReplaceable arranges for the next GetFunctionReplacement call
// on this goroutine to return the original function instead of its
// replacement, the Go rendition of swift_getOrigOfReplaceable.
func GetOriginalOfReplaceable() {
	tlscontext.Current().CallOriginalOfReplacedFunction = true
}
