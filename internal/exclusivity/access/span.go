package access

// Span is the two-pointer-sized value a scheduler embeds in every task
// object to carry that task's accesses across suspension points. It is the
// Go rendition of the original runtime's SwiftTaskThreadLocalContext: two
// words that mean different things depending on whether the task is
// currently running.
//
// At rest (task suspended, not pushed onto any goroutine):
//   - Head == nil, Tail == nil: the task owns no live accesses.
//   - Head != nil: the task owns a live list, Head is its first record and
//     Tail is its last (Tail.Next() == nil).
//
// While pushed (task running on some goroutine, see internal/exclusivity/engine):
// the two fields are repurposed as a resume token, not as the task's list —
// see engine/task.go for the push/pop algorithm that uses them this way.
type Span struct {
	Head *Record
	Tail *Record
}

// Empty reports whether the span currently owns no accesses.
func (s *Span) Empty() bool { return s.Head == nil && s.Tail == nil }
