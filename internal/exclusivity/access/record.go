// Package access implements the compiler-facing scratch value (Record) and
// the per-goroutine list of currently-live accesses (Set) at the heart of
// exclusivity tracking. Everything here is single-goroutine: a Set is only
// ever touched by the goroutine that owns it (see internal/exclusivity/tlscontext),
// so none of these types do their own locking.
package access

import "unsafe"

// Action distinguishes a read access, which never conflicts with another
// read, from a modify access, which conflicts with any concurrent access
// (read or modify) to the same storage.
type Action uint8

const (
	Read Action = iota
	Modify
)

// String renders the action the way conflict reports name it: "read" or
// "modification".
func (a Action) String() string {
	if a == Modify {
		return "modification"
	}
	return "read"
}

// Flags is the caller's declaration of what kind of access it wants tracked,
// and whether it wants it tracked at all. A caller that already knows two
// accesses can't alias (the compiler proved it, or checking is compiled out)
// still pairs Begin/End calls but sets Untracked so the pair is free.
type Flags uint8

const (
	// FlagModify marks the access as a modification. Its absence means Read.
	FlagModify Flags = 1 << iota
	// FlagUntracked declines tracking outright; Insert always returns
	// (nil, false) for it without touching the list.
	FlagUntracked
)

// NewFlags builds a Flags value from an action and a tracked bit.
func NewFlags(action Action, tracked bool) Flags {
	var f Flags
	if action == Modify {
		f |= FlagModify
	}
	if !tracked {
		f |= FlagUntracked
	}
	return f
}

// Action extracts the access kind encoded in f.
func (f Flags) Action() Action {
	if f&FlagModify != 0 {
		return Modify
	}
	return Read
}

// Tracked reports whether the caller wants this access recorded at all.
func (f Flags) Tracked() bool {
	return f&FlagUntracked == 0
}

// Record is the caller-owned scratch value passed by address to BeginAccess
// and EndAccess. Its zero value is a valid, not-yet-tracked record.
//
// The original C++ runtime packs the list link and the access action into a
// single pointer-sized word (stealing the low bit of the next-pointer). Go's
// garbage collector requires every word that might hold a pointer to be
// either a valid pointer or a plain non-pointer integer, never a pointer
// with bits stolen from it, so that packing has no safe Go equivalent; next
// and action are kept as separate fields here instead.
type Record struct {
	pointer unsafe.Pointer
	pc      uintptr
	next    *Record
	action  Action
}

// Pointer returns the tracked storage address, or nil if this record is not
// currently on any Set (either it was never inserted, tracking declined it,
// or it has already been removed).
func (r *Record) Pointer() unsafe.Pointer { return r.pointer }

// PC returns the instruction address recorded for this access, for
// diagnostics.
func (r *Record) PC() uintptr { return r.pc }

// Action returns the access kind this record was inserted with.
func (r *Record) Action() Action { return r.action }

// Next returns the next record in whatever Set this record belongs to, or
// nil if it is the tail (or not on a set at all).
func (r *Record) Next() *Record { return r.next }

// Relink overwrites the record's list link directly. Only the task
// push/pop protocol (internal/exclusivity/engine) calls this, to splice a
// task's list onto or off of a goroutine's synchronous list; everyday
// tracking never needs to touch an existing record's link.
func (r *Record) Relink(next *Record) { r.next = next }

// clear marks the record untracked, matching the "declined" contract: a
// nil pointer field makes the paired EndAccess a no-op.
func (r *Record) clear() {
	r.pointer = nil
	r.next = nil
}

// MarkUntracked is clear's exported form, for callers outside this package
// (Component D's disabled-checking fast path, and conflict handling, which
// must guarantee the paired EndAccess is a no-op).
func (r *Record) MarkUntracked() { r.clear() }

func (r *Record) init(pc uintptr, pointer unsafe.Pointer, next *Record, action Action) {
	r.pc = pc
	r.pointer = pointer
	r.next = next
	r.action = action
}
