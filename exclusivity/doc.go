// Package exclusivity provides a dynamic exclusivity-tracking runtime for
// compiled code that brackets every access it wants enforced in pairs of
// BeginAccess / EndAccess calls, and for a cooperative task scheduler that
// suspends and resumes tasks across worker goroutines.
//
// # Quick Start
//
// A compiler (or hand-written instrumentation) calls Init once at process
// startup and Fini once at shutdown:
//
//	func main() {
//		exclusivity.Init()
//		defer exclusivity.Fini()
//		// ... rest of program
//	}
//
// Every tracked access is bracketed:
//
//	var record exclusivity.AccessRecord
//	flags := exclusivity.NewFlags(exclusivity.ModifyAccess, true)
//	exclusivity.BeginAccess(unsafe.Pointer(&counter), &record, flags, 0)
//	counter++
//	exclusivity.EndAccess(&record)
//
// # How It Works
//
// Two accesses to the same storage conflict when their pointers are
// bitwise-identical and at least one of them is a modification; two
// concurrent reads never conflict. BeginAccess inserts the access into the
// calling goroutine's live-access list; a conflict there is fatal and is
// reported with both accesses' provenance before the process aborts.
//
// A cooperative scheduler that suspends a task calls
// TaskExitThreadLocalContext to detach the task's accesses from the
// goroutine's list into the task's own saved AccessSpan, and
// TaskEnterThreadLocalContext to splice them back in — potentially on a
// different goroutine than the one that suspended it — when the task
// resumes.
//
// # Compatibility
//
// This package tracks conflicts by storage-pointer identity only; it does
// not detect concurrent access to the same storage from two different
// tasks running truly in parallel (that remains undefined behavior), and
// it performs no static analysis of caller code.
package exclusivity
