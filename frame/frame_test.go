package frame

import "testing"

func TestFindFreeLowestIndex(t *testing.T) {
	ft := New(3)
	ft.At(1).OwnerPid = 5
	idx, ok := ft.FindFree()
	if !ok || idx != 0 {
		t.Fatalf("FindFree() = (%d, %v), want (0, true)", idx, ok)
	}
}

func TestFindFreeExhausted(t *testing.T) {
	ft := New(2)
	ft.At(0).OwnerPid = 1
	ft.At(1).OwnerPid = 2
	if _, ok := ft.FindFree(); ok {
		t.Fatal("FindFree() should report no free frames")
	}
}

// TestSelectVictimClearsReferenced exercises the clock algorithm's
// termination guarantee: every frame has Referenced == true, so the first
// full pass clears every bit, and the second pass picks frame 0.
func TestSelectVictimClearsReferenced(t *testing.T) {
	ft := New(3)
	for i := 0; i < 3; i++ {
		ft.At(i).OwnerPid = i + 1
		ft.At(i).Referenced = true
	}
	victim := ft.SelectVictim()
	if victim != 0 {
		t.Fatalf("SelectVictim() = %d, want 0", victim)
	}
	for i := 0; i < 3; i++ {
		if ft.At(i).Referenced {
			t.Fatalf("frame %d should have its Referenced bit cleared by the sweep", i)
		}
	}
}

func TestSelectVictimPicksUnreferencedFirst(t *testing.T) {
	ft := New(3)
	for i := 0; i < 3; i++ {
		ft.At(i).OwnerPid = i + 1
	}
	ft.At(0).Referenced = true
	ft.At(1).Referenced = false
	ft.At(2).Referenced = true

	victim := ft.SelectVictim()
	if victim != 1 {
		t.Fatalf("SelectVictim() = %d, want 1", victim)
	}
	if ft.At(0).Referenced {
		t.Fatal("frame 0 should have been swept before frame 1 was chosen")
	}
}

func TestSelectVictimHandAdvances(t *testing.T) {
	ft := New(2)
	ft.At(0).OwnerPid = 1
	ft.At(1).OwnerPid = 2
	v1 := ft.SelectVictim()
	if v1 != 0 {
		t.Fatalf("first SelectVictim() = %d, want 0", v1)
	}
	v2 := ft.SelectVictim()
	if v2 != 1 {
		t.Fatalf("second SelectVictim() = %d, want 1", v2)
	}
}
