package access

import "unsafe"

// Set is an intrusive singly-linked list of live Records, LIFO ordered:
// the most recently inserted access is the head. A Set does not own the
// storage backing its records — callers do — it only owns membership.
type Set struct {
	head *Record
}

// Head returns the most recently inserted live record, or nil if the set is
// empty.
func (s *Set) Head() *Record { return s.head }

// SetHead replaces the set's head directly. Only the task push/pop protocol
// (internal/exclusivity/engine) calls this: everyday Begin/End access goes
// through Insert/Remove instead.
func (s *Set) SetHead(head *Record) { s.head = head }

// Insert records a new access, checking it against every access already in
// the set. If flags declines tracking, Insert does nothing and returns
// (nil, false). If pointer conflicts with an existing live access — the same
// storage pointer, with at least one side a modification — Insert leaves the
// set unchanged and returns the conflicting record so the caller (Component D)
// can report it; a conflict is always fatal, so nothing is inserted.
// Otherwise the record is linked in at the head and Insert returns (nil, true).
func (s *Set) Insert(record *Record, pointer unsafe.Pointer, pc uintptr, flags Flags) (conflict *Record, inserted bool) {
	if !flags.Tracked() {
		record.clear()
		return nil, false
	}

	action := flags.Action()
	for cur := s.head; cur != nil; cur = cur.next {
		if cur.pointer != pointer {
			continue
		}
		if action == Read && cur.action == Read {
			continue
		}
		return cur, false
	}

	record.init(pc, pointer, s.head, action)
	s.head = record
	return nil, true
}

// Remove takes record off the set. record must currently be on the set;
// removing a record that isn't found is a tracker invariant breach, not a
// caller error, and is reported by the caller via assert.Fail rather than
// here, so this package stays free of the assert import cycle concern and
// callers can choose their own failure message.
func (s *Set) Remove(record *Record) (found bool) {
	if s.head == record {
		s.head = record.next
		record.clear()
		return true
	}
	parent := s.FindParent(record)
	if parent == nil {
		return false
	}
	parent.next = record.next
	record.clear()
	return true
}

// FindParent walks the set looking for the record whose Next() is target,
// returning nil if target is the head or is not on the set at all.
func (s *Set) FindParent(target *Record) *Record {
	for cur := s.head; cur != nil; cur = cur.next {
		if cur.next == target {
			return cur
		}
	}
	return nil
}

// Tail returns the last record in the set, or nil if the set is empty.
func (s *Set) Tail() *Record {
	cur := s.head
	if cur == nil {
		return nil
	}
	for cur.next != nil {
		cur = cur.next
	}
	return cur
}

// ForEach walks the set head to tail, calling fn for each live record. It
// exists for diagnostics (DumpTrackedAccesses) only; nothing on the hot path
// uses it.
func (s *Set) ForEach(fn func(*Record)) {
	for cur := s.head; cur != nil; cur = cur.next {
		fn(cur)
	}
}
