package engine

import (
	"github.com/kolkov/exclusivity/internal/exclusivity/access"
	"github.com/kolkov/exclusivity/internal/exclusivity/tlscontext"
	"github.com/kolkov/exclusivity/internal/exclusivity/tracelog"
)

// TaskEnterThreadLocalContext and TaskExitThreadLocalContext are Component
// E: the push/pop protocol a cooperative scheduler calls around every
// suspension boundary so a task's accesses travel with it, without ever
// touching the surrounding synchronous code's accesses. This is the
// module's one hard algorithm, grounded on Exclusivity.cpp's
// swift_task_enterThreadLocalContext / swift_task_exitThreadLocalContext.
//
// The two words in an access.Span mean different things depending on
// whether the task is running (see access.Span's doc comment). Both
// directions boil down to four cases, decided by whether the task already
// owned a nonempty list and whether the current goroutine already had
// synchronous accesses of its own:
//
// Push (enter), given the goroutine's current head "floor":
//
//  1. span empty, floor nil    -- nothing to do; task starts with nothing
//     below it and will simply accumulate directly on an empty list.
//  2. span empty, floor set    -- the task starts with nothing of its own,
//     but there IS a synchronous list underneath it. Stash floor as the
//     pivot (in Tail) so Pop can later tell whether the task added
//     anything, without needing to walk the list on every suspend.
//  3. span nonempty, floor nil -- splice the task's own list in as the
//     entire current list; there is nothing beneath it, so record a nil
//     pivot exactly like case 1 (Pop treats "pivot nil" identically
//     whether or not the task started with its own accesses).
//  4. span nonempty, floor set -- splice the task's list on top of the
//     existing synchronous list (its tail's Next becomes floor) and record
//     floor as the pivot, exactly like case 2.
//
// Cases 1 and 3 share a pivot of nil; cases 2 and 4 share a pivot equal to
// the pre-push floor. That collapses Pop to two branches instead of four:
// pivot nil means "everything currently on the list is the task's, all the
// way down," and pivot non-nil means "walk until you find what points at
// the pivot; that boundary is where the task's contribution ends."
//
// Pop (exit), given the resume token (nil, pivot) left by Push:
//
//  5. pivot nil     -- the entire current list belongs to the task (this
//     merges original cases 1 and 3): take it all, leave the goroutine's
//     list empty.
//  6. pivot set, current head == pivot -- the task added nothing during
//     its run; restore the empty span, leave the list exactly as it was
//     (already equal to the pivot).
//  7. pivot set, current head != pivot -- the task added new accesses on
//     top of the pivot; cut the list at the record whose Next is the
//     pivot, keep everything above as the task's own list, and restore the
//     goroutine's head back down to the pivot.
//
// A task can suspend on one goroutine and resume on another: nothing above
// depends on which goroutine is running, only on that goroutine's current
// list and the two words saved in the task's own Span.
func TaskEnterThreadLocalContext(span *access.Span) {
	ctx := tlscontext.Current()
	floor := ctx.Accesses.Head()

	switch {
	case span.Head == nil && floor == nil:
		// Case 1.
		span.Tail = nil

	case span.Head == nil && floor != nil:
		// Case 2.
		span.Tail = floor

	case span.Head != nil && floor == nil:
		// Case 3.
		ctx.Accesses.SetHead(span.Head)
		span.Head = nil
		span.Tail = nil

	default:
		// Case 4.
		taskTail := span.Tail
		linkNext(taskTail, floor)
		ctx.Accesses.SetHead(span.Head)
		span.Head = nil
		span.Tail = floor
	}

	tracelog.Tracef("task push floor=%p pivot=%p", floor, span.Tail)
}

func TaskExitThreadLocalContext(span *access.Span) {
	ctx := tlscontext.Current()
	pivot := span.Tail
	current := ctx.Accesses.Head()

	switch {
	case pivot == nil:
		// Case 5.
		span.Head = current
		span.Tail = ctx.Accesses.Tail()
		ctx.Accesses.SetHead(nil)

	case current == pivot:
		// Case 6.
		span.Head = nil
		span.Tail = nil

	default:
		// Case 7.
		parent := ctx.Accesses.FindParent(pivot)
		linkNext(parent, nil)
		span.Head = current
		span.Tail = parent
		ctx.Accesses.SetHead(pivot)
	}

	tracelog.Tracef("task pop pivot=%p newHead=%p", pivot, span.Head)
}

// linkNext sets record's link to next without exposing access.Record's
// unexported field outside its own package; access.Span-based splicing is
// the one place outside access itself that needs to relink a record, so
// access exposes exactly this one seam.
func linkNext(record, next *access.Record) {
	if record == nil {
		return
	}
	record.Relink(next)
}
