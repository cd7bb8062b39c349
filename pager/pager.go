// Package pager implements the page/frame/block bookkeeping engine: the
// Fault Handler, the second-chance replacement policy's MMU-facing side
// effects, the Syslog Reader, and the four lifecycle operations
// (Init/Create/Extend/Destroy), coordinating the frame, block, page and
// registry packages and driving an mmu.MMU in the order spec.md §4
// requires.
//
// Grounded on biscuit/src/vm/as.go's Vm_t: a single embedded mutex guards
// every field, acquired for the whole duration of each exported call
// (spec.md §5's "all five entry points execute under a single
// process-wide mutex held for the entire call"), and Sys_pgfault's two-way
// branch (protection-upgrade vs. major fault) is the direct model for
// Fault below — transformed from a real-hardware fault handler with
// COW/file-mapping/TLB-shootdown concerns (none of which apply to a
// simulated MMU with one anonymous mapping type) down to the two cases
// spec.md actually specifies.
package pager

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"mempager/block"
	"mempager/frame"
	"mempager/mmu"
	"mempager/page"
	"mempager/registry"
	"mempager/util"
)

// Pager is the owning aggregate spec.md §9 calls for in place of a
// package-level singleton: one Pager is constructed by Init and is the
// receiver of every subsequent call, so parallel tests and parallel
// simulated hosts can each own an independent instance.
type Pager struct {
	// Guards every field below for the entire duration of each exported
	// method, per spec.md §5. Embedded, matching Vm_t and Physmem_t's
	// convention of exposing Lock/Unlock directly on the aggregate.
	sync.Mutex

	base     uintptr
	pageSize int

	frames *frame.Table
	blocks *block.Table
	reg    *registry.Registry
	mmu    mmu.MMU

	// Stats accumulates lifetime counters; see stats.go.
	Stats Stats
}

// Init allocates the Frame Table (all frames free), the Block Table (all
// blocks unowned, never written) and an empty Page Table Registry, and
// records the host-supplied UVM base address and page size. m is the MMU
// the pager will drive for the rest of its lifetime. registryCapacity == 0
// means unbounded, spec.md's default.
func Init(m mmu.MMU, base uintptr, pageSize, nframes, nblocks, registryCapacity int) *Pager {
	return &Pager{
		base:     base,
		pageSize: pageSize,
		frames:   frame.New(nframes),
		blocks:   block.New(nblocks),
		reg:      registry.New(registryCapacity),
		mmu:      m,
	}
}

// Create registers pid with an empty Page Table. It returns ErrRegistryFull
// only if the registry is at its configured capacity.
func (p *Pager) Create(pid int) error {
	p.Lock()
	defer p.Unlock()
	if !p.reg.Create(pid, p.base, p.pageSize) {
		return ErrRegistryFull
	}
	return nil
}

func (p *Pager) tableFor(pid int) *page.Table {
	tbl, ok := p.reg.Get(pid)
	if !ok {
		panic(fmt.Sprintf("pager: unknown pid %d", pid))
	}
	return tbl
}

// Extend reserves one additional virtual page for pid and returns its
// vaddr. It returns ErrNoFreeBlock, with no state change, if the Block
// Table has no free block.
func (p *Pager) Extend(pid int) (uintptr, error) {
	p.Lock()
	defer p.Unlock()
	tbl := p.tableFor(pid)

	blockIdx, ok := p.blocks.Reserve(pid, tbl.Len())
	if !ok {
		return 0, ErrNoFreeBlock
	}
	idx := tbl.Append(blockIdx)
	return tbl.At(idx).Vaddr, nil
}

// Fault resolves a faulting address into a resident, correctly protected
// frame. addr is aligned down to a page boundary before lookup. Per
// spec.md §9's resolution of the "fault outside any extended page" open
// question, an addr that does not fall within any page pid has extended
// is a programmer error: Fault panics rather than risk corrupting state.
func (p *Pager) Fault(pid int, addr uintptr) error {
	p.Lock()
	defer p.Unlock()
	tbl := p.tableFor(pid)

	aligned := util.Rounddown(addr, uintptr(p.pageSize))
	idx, ok := tbl.IndexFor(aligned)
	if !ok {
		panic(fmt.Sprintf("pager: fault at %#x is outside any extended page for pid %d", addr, pid))
	}
	pg := tbl.At(idx)
	p.Stats.incFault()

	if pg.Valid {
		// Case (a): protection-upgrade fault. The page is mapped
		// read-only; a write to it is how the pager discovers dirtiness
		// without a hardware dirty bit.
		p.mmu.Chprot(pid, pg.Vaddr, mmu.Read|mmu.Write)
		p.frames.At(pg.Frame).Referenced = true
		pg.Dirty = true
		p.Stats.incHit()
		return nil
	}

	// Case (b): major fault.
	p.Stats.incMajorFault()
	frameIdx, ok := p.frames.FindFree()
	if !ok {
		frameIdx = p.evict()
	}

	fr := p.frames.At(frameIdx)
	fr.OwnerPid = pid
	fr.PageIndex = idx
	fr.Referenced = true

	pg.Valid = true
	pg.Frame = frameIdx
	pg.Dirty = false

	blk := p.blocks.At(pg.Block)
	if blk.EverWritten {
		p.mmu.DiskRead(pg.Block, frameIdx)
		p.Stats.incDiskRead()
	} else {
		p.mmu.ZeroFill(frameIdx)
		p.Stats.incZeroFill()
	}
	// Read-only install is deliberate: the next write regenerates a
	// case-(a) fault that upgrades protection and sets Dirty.
	p.mmu.Resident(pid, pg.Vaddr, frameIdx, mmu.Read)
	return nil
}

// evict runs the second-chance clock policy to choose a victim frame,
// performs its eviction side effects in the order spec.md §4.2/§4.3
// require, and returns the now-free frame index. Callers must populate
// the returned frame before releasing the Pager's lock.
func (p *Pager) evict() int {
	victim := p.frames.SelectVictim()
	if victim == 0 {
		// Clock-sweep protection reset: the hand has just completed a
		// full revolution. Refresh reference information globally since
		// the pager holds no hardware reference bit of its own.
		p.sweepProtections()
	}

	fr := p.frames.At(victim)
	victimTbl := p.tableFor(fr.OwnerPid)
	victimPage := victimTbl.At(fr.PageIndex)

	victimPage.Valid = false
	p.mmu.NonResident(fr.OwnerPid, victimPage.Vaddr)

	if victimPage.Dirty {
		p.blocks.At(victimPage.Block).EverWritten = true
		p.mmu.DiskWrite(victim, victimPage.Block)
		p.Stats.incDiskWrite()
	}
	p.Stats.incEviction()
	return victim
}

// sweepProtections resets protection on every currently resident page,
// across every process, to None. This is the mechanism spec.md §4.3
// specifies for refreshing reference bits in the absence of a hardware
// one: without it, a page that is resident but rarely touched would keep
// looking "referenced" forever once the bit is set.
func (p *Pager) sweepProtections() {
	for i := 0; i < p.frames.Len(); i++ {
		fr := p.frames.At(i)
		if fr.OwnerPid == frame.NoPid {
			continue
		}
		tbl, ok := p.reg.Get(fr.OwnerPid)
		if !ok {
			continue
		}
		pg := tbl.At(fr.PageIndex)
		p.mmu.Chprot(fr.OwnerPid, pg.Vaddr, mmu.None)
	}
}

// Destroy frees every block pid owns (returning them to the clean,
// never-written baseline) and frees any frame pid's pages occupy, then
// discards pid's Page Table. It never calls into the MMU: per spec.md §9,
// the host is responsible for tearing down pid's mappings wholesale when
// the process itself goes away.
func (p *Pager) Destroy(pid int) error {
	p.Lock()
	defer p.Unlock()
	tbl := p.tableFor(pid)

	for i := 0; i < tbl.Len(); i++ {
		pg := tbl.At(i)
		p.blocks.Release(pg.Block)
		if pg.Valid {
			fr := p.frames.At(pg.Frame)
			fr.OwnerPid = frame.NoPid
			fr.PageIndex = 0
			fr.Referenced = false
		}
	}
	p.reg.Remove(pid)
	return nil
}

// Syslog reads length bytes starting at addr from pid's address space and
// writes them to w as lowercase hex, with a trailing newline iff length >
// 0. It returns ErrOutOfRange, writing nothing at all, if any byte in the
// range falls outside pid's allocated virtual range or inside a page that
// is not currently resident — per spec.md §9's resolved open question,
// Syslog never faults a page in on the caller's behalf.
func (p *Pager) Syslog(w io.Writer, pid int, addr uintptr, length int) error {
	p.Lock()
	defer p.Unlock()
	tbl := p.tableFor(pid)

	var buf bytes.Buffer
	pmem := p.mmu.Pmem()
	for i := 0; i < length; i++ {
		a := addr + uintptr(i)
		idx, ok := tbl.IndexFor(a)
		if !ok {
			return ErrOutOfRange
		}
		pg := tbl.At(idx)
		if !pg.Valid {
			return ErrOutOfRange
		}
		off := pg.Frame*p.pageSize + int(a-pg.Vaddr)
		fmt.Fprintf(&buf, "%02x", pmem[off])
	}
	if length > 0 {
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// PageSize returns the page size this Pager was initialized with.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// Base returns the UVM base address this Pager was initialized with.
func (p *Pager) Base() uintptr {
	return p.base
}
