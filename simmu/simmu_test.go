package simmu

import (
	"bytes"
	"testing"

	"mempager/mmu"
)

func TestResidentAndChprot(t *testing.T) {
	s := New(2, 2, 4096)
	s.Resident(1, 0x1000, 0, mmu.Read)
	prot, ok := s.Prot(1, 0x1000)
	if !ok || prot != mmu.Read {
		t.Fatalf("Prot() = (%v, %v), want (READ, true)", prot, ok)
	}
	s.Chprot(1, 0x1000, mmu.Read|mmu.Write)
	prot, _ = s.Prot(1, 0x1000)
	if prot != mmu.Read|mmu.Write {
		t.Fatalf("Prot() after Chprot = %v, want READ|WRITE", prot)
	}
	s.NonResident(1, 0x1000)
	if s.Mapped(1, 0x1000) {
		t.Fatal("NonResident should remove the mapping")
	}
}

func TestDiskRoundTrip(t *testing.T) {
	s := New(1, 1, 8)
	frameBytes := s.frameBytes(0)
	copy(frameBytes, []byte("deadbeef"))
	s.DiskWrite(0, 0)
	s.ZeroFill(0)
	if !bytes.Equal(s.frameBytes(0), make([]byte, 8)) {
		t.Fatal("ZeroFill should clear the frame")
	}
	s.DiskRead(0, 0)
	if !bytes.Equal(s.frameBytes(0), []byte("deadbeef")) {
		t.Fatal("DiskRead should restore the previously written block")
	}
}

func TestTraceCallback(t *testing.T) {
	var lines []string
	s := New(1, 1, 4096)
	s.Trace = func(line string) { lines = append(lines, line) }
	s.Resident(1, 0x2000, 0, mmu.Read)
	if len(lines) != 1 {
		t.Fatalf("expected 1 trace line, got %d", len(lines))
	}
}
