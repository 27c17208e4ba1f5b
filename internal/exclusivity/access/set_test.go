package access

import (
	"testing"
	"unsafe"
)

func addrOf(x *int) unsafe.Pointer { return unsafe.Pointer(x) }

func TestInsertDistinctPointersNeverConflict(t *testing.T) {
	var a, b, c int
	var set Set
	var ra, rb, rc Record

	if conflict, ok := set.Insert(&ra, addrOf(&a), 1, NewFlags(Modify, true)); !ok || conflict != nil {
		t.Fatalf("Insert(a) = (%v, %v), want (nil, true)", conflict, ok)
	}
	if conflict, ok := set.Insert(&rb, addrOf(&b), 2, NewFlags(Read, true)); !ok || conflict != nil {
		t.Fatalf("Insert(b) = (%v, %v), want (nil, true)", conflict, ok)
	}
	if conflict, ok := set.Insert(&rc, addrOf(&c), 3, NewFlags(Modify, true)); !ok || conflict != nil {
		t.Fatalf("Insert(c) = (%v, %v), want (nil, true)", conflict, ok)
	}

	if set.Head() != &rc {
		t.Fatalf("Head() = %p, want most-recently-inserted %p", set.Head(), &rc)
	}
}

func TestInsertReadReadNeverConflicts(t *testing.T) {
	var x int
	var set Set
	var r1, r2 Record

	if _, ok := set.Insert(&r1, addrOf(&x), 1, NewFlags(Read, true)); !ok {
		t.Fatal("first read insert declined")
	}
	if conflict, ok := set.Insert(&r2, addrOf(&x), 2, NewFlags(Read, true)); !ok || conflict != nil {
		t.Fatalf("second read insert = (%v, %v), want (nil, true)", conflict, ok)
	}
}

func TestInsertModifyConflictsWithRead(t *testing.T) {
	var x int
	var set Set
	var r1, r2 Record

	if _, ok := set.Insert(&r1, addrOf(&x), 1, NewFlags(Read, true)); !ok {
		t.Fatal("first read insert declined")
	}
	conflict, ok := set.Insert(&r2, addrOf(&x), 2, NewFlags(Modify, true))
	if ok || conflict != &r1 {
		t.Fatalf("Insert(modify) = (%p, %v), want (%p, false)", conflict, ok, &r1)
	}
	if set.Head() != &r1 {
		t.Fatal("conflicting record must not be inserted")
	}
}

func TestInsertModifyModifyConflicts(t *testing.T) {
	var x int
	var set Set
	var r1, r2 Record

	set.Insert(&r1, addrOf(&x), 1, NewFlags(Modify, true))
	conflict, ok := set.Insert(&r2, addrOf(&x), 2, NewFlags(Modify, true))
	if ok || conflict != &r1 {
		t.Fatalf("Insert(modify, modify) = (%p, %v), want (%p, false)", conflict, ok, &r1)
	}
}

func TestInsertUntrackedDeclines(t *testing.T) {
	var x int
	var set Set
	var r Record

	conflict, ok := set.Insert(&r, addrOf(&x), 1, NewFlags(Modify, false))
	if ok || conflict != nil {
		t.Fatalf("Insert(untracked) = (%v, %v), want (nil, false)", conflict, ok)
	}
	if r.Pointer() != nil {
		t.Fatal("declined record must report a nil pointer, so End is a no-op")
	}
	if set.Head() != nil {
		t.Fatal("declined record must not be linked into the set")
	}
}

func TestRemoveHeadFastPath(t *testing.T) {
	var a, b int
	var set Set
	var ra, rb Record

	set.Insert(&ra, addrOf(&a), 1, NewFlags(Read, true))
	set.Insert(&rb, addrOf(&b), 2, NewFlags(Read, true))

	if !set.Remove(&rb) {
		t.Fatal("Remove(head) reported not found")
	}
	if set.Head() != &ra {
		t.Fatalf("Head() = %p after removing head, want %p", set.Head(), &ra)
	}
	if rb.Pointer() != nil {
		t.Fatal("removed record must be cleared")
	}
}

func TestRemoveMidListWalk(t *testing.T) {
	var a, b, c int
	var set Set
	var ra, rb, rc Record

	set.Insert(&ra, addrOf(&a), 1, NewFlags(Read, true))
	set.Insert(&rb, addrOf(&b), 2, NewFlags(Read, true))
	set.Insert(&rc, addrOf(&c), 3, NewFlags(Read, true))
	// list head-to-tail: rc, rb, ra

	if !set.Remove(&rb) {
		t.Fatal("Remove(mid) reported not found")
	}
	if set.Head() != &rc || set.Head().Next() != &ra {
		t.Fatal("Remove(mid) must splice around the removed record")
	}
}

func TestRemoveNotFound(t *testing.T) {
	var a int
	var set Set
	var ra, orphan Record

	set.Insert(&ra, addrOf(&a), 1, NewFlags(Read, true))
	if set.Remove(&orphan) {
		t.Fatal("Remove(orphan) reported found, want not found")
	}
}

func TestFindParentAndTail(t *testing.T) {
	var a, b, c int
	var set Set
	var ra, rb, rc Record

	set.Insert(&ra, addrOf(&a), 1, NewFlags(Read, true))
	set.Insert(&rb, addrOf(&b), 2, NewFlags(Read, true))
	set.Insert(&rc, addrOf(&c), 3, NewFlags(Read, true))

	if set.Tail() != &ra {
		t.Fatalf("Tail() = %p, want first-inserted %p", set.Tail(), &ra)
	}
	if set.FindParent(&ra) != &rb {
		t.Fatalf("FindParent(ra) = %p, want %p", set.FindParent(&ra), &rb)
	}
	if set.FindParent(&rc) != nil {
		t.Fatal("FindParent(head) should be nil")
	}
}

func TestForEachVisitsInOrder(t *testing.T) {
	var a, b int
	var set Set
	var ra, rb Record

	set.Insert(&ra, addrOf(&a), 1, NewFlags(Read, true))
	set.Insert(&rb, addrOf(&b), 2, NewFlags(Read, true))

	var seen []*Record
	set.ForEach(func(r *Record) { seen = append(seen, r) })
	if len(seen) != 2 || seen[0] != &rb || seen[1] != &ra {
		t.Fatalf("ForEach visited %v, want [rb, ra]", seen)
	}
}
