// Package exclusivity is the public API; see doc.go for an overview.
package exclusivity

import (
	"unsafe"

	internalaccess "github.com/kolkov/exclusivity/internal/exclusivity/access"
	"github.com/kolkov/exclusivity/internal/exclusivity/engine"
	"github.com/kolkov/exclusivity/internal/exclusivity/report"
)

// AccessRecord is the caller-owned scratch value passed by address to
// BeginAccess and EndAccess. Its zero value is ready to use.
type AccessRecord = internalaccess.Record

// AccessSpan is the two-pointer-sized value a scheduler embeds in every task
// object to carry that task's accesses across suspension points. Its zero
// value represents a task that owns no accesses yet.
type AccessSpan = internalaccess.Span

// Action distinguishes a read from a modification.
type Action = internalaccess.Action

const (
	ReadAccess   = internalaccess.Read
	ModifyAccess = internalaccess.Modify
)

// Flags declares what kind of access a caller wants tracked, and whether it
// wants it tracked at all.
type Flags = internalaccess.Flags

// NewFlags builds a Flags value from an action and a tracked bit.
func NewFlags(action Action, tracked bool) Flags {
	return internalaccess.NewFlags(action, tracked)
}

// Conflict describes the two accesses involved in an exclusivity violation.
type Conflict = report.Conflict

// DebugNotifier is invoked when a conflict is detected, before the process
// aborts. Production code usually leaves this unset.
type DebugNotifier = report.DebugNotifier

// Option configures the runtime at Init time.
type Option = engine.Option

// WithNotifier installs a debug-notifier sink invoked on every conflict.
func WithNotifier(fn DebugNotifier) Option { return engine.WithNotifier(fn) }

// WithAbort overrides how a fatal conflict terminates the process. Tests use
// this; production code should not need it.
func WithAbort(fn func(code int)) Option { return engine.WithAbort(fn) }

// WithSingleThreaded selects a single static context shared by every
// goroutine, for embedders known never to touch tracked storage from more
// than one goroutine at a time.
func WithSingleThreaded() Option { return engine.WithSingleThreaded() }

// Init initializes the exclusivity runtime. It is safe to call more than
// once; each call resets counters and re-applies opts.
//
//	func main() {
//		exclusivity.Init()
//		defer exclusivity.Fini()
//		// ... rest of program
//	}
func Init(opts ...Option) {
	engine.Init(opts...)
}

// Fini finalizes the runtime and prints a summary report to stderr.
func Fini() {
	engine.Fini()
}

// Enable turns exclusivity checking on process-wide.
func Enable() { engine.Enable() }

// Disable turns exclusivity checking off process-wide; every BeginAccess
// afterward takes the fast untracked path.
func Disable() { engine.Disable() }

// BeginAccess records the start of an access to pointer. record is the
// caller-owned scratch value the paired EndAccess call will use. If pc is
// zero, BeginAccess substitutes its caller's return address.
//
//nolint:revive // BeginAccess naming matches the runtime entry point it wraps
func BeginAccess(pointer unsafe.Pointer, record *AccessRecord, flags Flags, pc uintptr) {
	engine.BeginAccess(pointer, record, flags, pc)
}

// EndAccess ends the access started by the paired BeginAccess call.
//
//nolint:revive // EndAccess naming matches the runtime entry point it wraps
func EndAccess(record *AccessRecord) {
	engine.EndAccess(record)
}

// TaskEnterThreadLocalContext splices span's saved accesses onto the calling
// goroutine's live-access list, on resuming a task. It is the scheduler's
// responsibility to call this exactly once per resume.
func TaskEnterThreadLocalContext(span *AccessSpan) {
	engine.TaskEnterThreadLocalContext(span)
}

// TaskExitThreadLocalContext detaches the task's own accesses from the
// calling goroutine's live-access list back into span, on suspending a
// task. It is the scheduler's responsibility to call this exactly once per
// suspend.
func TaskExitThreadLocalContext(span *AccessSpan) {
	engine.TaskExitThreadLocalContext(span)
}

// GetFunctionReplacement chooses between a replacement function and the
// original it replaces, honoring a one-shot per-goroutine override set by
// GetOriginalOfReplaceable.
func GetFunctionReplacement(replacement, current unsafe.Pointer) unsafe.Pointer {
	return engine.GetFunctionReplacement(replacement, current)
}

// GetOriginalOfReplaceable arranges for the next GetFunctionReplacement call
// on this goroutine to return the original function instead of its
// replacement.
func GetOriginalOfReplaceable() {
	engine.GetOriginalOfReplaceable()
}

// DumpTrackedAccesses writes the calling goroutine's live access set to
// stderr. Debug tooling only.
func DumpTrackedAccesses() {
	engine.DumpTrackedAccesses()
}
