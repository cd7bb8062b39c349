package block

import "testing"

func TestReserveLowestIndexFirst(t *testing.T) {
	bt := New(4)
	if bt.FreeCount() != 4 {
		t.Fatalf("FreeCount() = %d, want 4", bt.FreeCount())
	}
	idx, ok := bt.Reserve(7, 0)
	if !ok || idx != 0 {
		t.Fatalf("Reserve() = (%d, %v), want (0, true)", idx, ok)
	}
	idx, ok = bt.Reserve(7, 1)
	if !ok || idx != 1 {
		t.Fatalf("Reserve() = (%d, %v), want (1, true)", idx, ok)
	}
	if bt.FreeCount() != 2 {
		t.Fatalf("FreeCount() = %d, want 2", bt.FreeCount())
	}
}

func TestReserveExhaustion(t *testing.T) {
	bt := New(2)
	if _, ok := bt.Reserve(1, 0); !ok {
		t.Fatal("first reserve should succeed")
	}
	if _, ok := bt.Reserve(1, 1); !ok {
		t.Fatal("second reserve should succeed")
	}
	before := *bt.At(0)
	if _, ok := bt.Reserve(1, 2); ok {
		t.Fatal("third reserve should fail: no free blocks")
	}
	if *bt.At(0) != before {
		t.Fatal("failed reserve must not mutate state")
	}
}

func TestReleaseResetsEverWritten(t *testing.T) {
	bt := New(1)
	idx, _ := bt.Reserve(3, 0)
	bt.At(idx).EverWritten = true
	bt.Release(idx)
	if !bt.At(idx).free() {
		t.Fatal("released block should be free")
	}
	if bt.At(idx).EverWritten {
		t.Fatal("released block should reset EverWritten to the clean baseline")
	}
	idx2, ok := bt.Reserve(9, 0)
	if !ok || idx2 != idx {
		t.Fatalf("Reserve after Release should reuse the freed index, got (%d, %v)", idx2, ok)
	}
	if bt.At(idx2).EverWritten {
		t.Fatal("reused block must start clean")
	}
}
