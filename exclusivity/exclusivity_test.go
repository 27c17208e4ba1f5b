package exclusivity_test

import (
	"testing"
	"unsafe"

	"github.com/kolkov/exclusivity/exclusivity"
)

func ptrOf(x *int) unsafe.Pointer { return unsafe.Pointer(x) }

func TestPairwiseDistinctAccessesNeverConflict(t *testing.T) {
	exclusivity.Init()
	defer exclusivity.Fini()

	var a, b, c int
	var ra, rb, rc exclusivity.AccessRecord

	exclusivity.BeginAccess(ptrOf(&a), &ra, exclusivity.NewFlags(exclusivity.ModifyAccess, true), 0)
	exclusivity.BeginAccess(ptrOf(&b), &rb, exclusivity.NewFlags(exclusivity.ReadAccess, true), 0)
	exclusivity.BeginAccess(ptrOf(&c), &rc, exclusivity.NewFlags(exclusivity.ModifyAccess, true), 0)
	exclusivity.EndAccess(&rc)
	exclusivity.EndAccess(&rb)
	exclusivity.EndAccess(&ra)
}

func TestReadModifyConflictAbortsWithReport(t *testing.T) {
	var conflict *exclusivity.Conflict
	aborted := false
	exclusivity.Init(
		exclusivity.WithNotifier(func(c exclusivity.Conflict) { conflict = &c }),
		exclusivity.WithAbort(func(int) { aborted = true }),
	)
	defer exclusivity.Fini()

	var x int
	var r1, r2 exclusivity.AccessRecord
	exclusivity.BeginAccess(ptrOf(&x), &r1, exclusivity.NewFlags(exclusivity.ReadAccess, true), 0)
	exclusivity.BeginAccess(ptrOf(&x), &r2, exclusivity.NewFlags(exclusivity.ModifyAccess, true), 0)

	if !aborted {
		t.Fatal("read followed by modify on the same storage must conflict")
	}
	if conflict == nil || conflict.Previous.Action.String() != "read" {
		t.Fatal("the report must identify the prior access as a read")
	}
	exclusivity.EndAccess(&r1)
}

func TestTaskSpanRoundTripsAcrossSuspension(t *testing.T) {
	exclusivity.Init()
	defer exclusivity.Fini()

	var span exclusivity.AccessSpan
	exclusivity.TaskEnterThreadLocalContext(&span)

	var y int
	var r exclusivity.AccessRecord
	exclusivity.BeginAccess(ptrOf(&y), &r, exclusivity.NewFlags(exclusivity.ModifyAccess, true), 0)

	exclusivity.TaskExitThreadLocalContext(&span)
	if span.Empty() {
		t.Fatal("the task must have captured the access it created before suspending")
	}

	exclusivity.TaskEnterThreadLocalContext(&span)
	exclusivity.EndAccess(&r)
	exclusivity.TaskExitThreadLocalContext(&span)
	if !span.Empty() {
		t.Fatal("after ending its access and popping again, the span must be empty")
	}
}
