// Package mmu describes the interface the pager consumes from the external
// Memory Management Unit simulator. The pager never implements these
// methods; it only calls them in a specific order (see package pager) and
// reads the raw physical memory they expose through Pmem.
package mmu

import "fmt"

// Prot is a page protection bitmask.
type Prot uint8

const (
	// None denies all access.
	None Prot = 0
	// Read permits loads.
	Read Prot = 1 << 0
	// Write permits stores. The pager always requests Read|Write together;
	// Write alone is never issued.
	Write Prot = 1 << 1
)

// String renders a Prot the way the host's trace logs do.
func (p Prot) String() string {
	switch p {
	case None:
		return "NONE"
	case Read:
		return "READ"
	case Read | Write:
		return "READ|WRITE"
	default:
		return fmt.Sprintf("PROT(%#x)", uint8(p))
	}
}

// MMU is the side-effectful collaborator the pager drives. Every method is
// assumed infallible and synchronous; the pager holds its own lock across
// these calls (see pager.Pager), so implementations need not be
// goroutine-safe on their own.
type MMU interface {
	// Resident binds vaddr to frame in pid's address space with protection
	// prot. Called only for a frame the pager has just populated.
	Resident(pid int, vaddr uintptr, frame int, prot Prot)
	// NonResident removes pid's mapping for vaddr. Called only on a frame
	// the pager is about to reuse for a different page.
	NonResident(pid int, vaddr uintptr)
	// Chprot changes the protection of an existing mapping without moving
	// it. Called on protection-upgrade faults and on the clock-wrap sweep.
	Chprot(pid int, vaddr uintptr, prot Prot)
	// DiskRead copies backing-store block into frame.
	DiskRead(block, frame int)
	// DiskWrite copies frame into backing-store block.
	DiskWrite(frame, block int)
	// ZeroFill zeroes frame in place, used for first-touch pages that were
	// never written to the backing store.
	ZeroFill(frame int)
	// Pmem returns the full physical memory array, indexed linearly by
	// frame*pageSize+offset. The pager only ever reads it.
	Pmem() []byte
}
