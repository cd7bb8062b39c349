// Package block implements the backing-store Block Table: a fixed-size
// array of block descriptors tracking which blocks are allocated to a page
// and which have ever been written to disk.
//
// Grounded on mem.Physmem_t's fixed descriptor array in the teacher
// repository (biscuit/src/mem/mem.go), trimmed to the single concern this
// domain needs: no refcounts, no per-CPU free lists, no direct map — a
// block belongs to at most one page for that page's lifetime.
package block

// NoPid marks a block as unowned.
const NoPid = -1

/// Block is one backing-store block descriptor.
type Block struct {
	// OwnerPid is the process that owns this block's page, or NoPid if
	// the block is free.
	OwnerPid int
	// OwnerPageIndex is the index, within OwnerPid's page table, of the
	// page this block backs. Meaningful only while OwnerPid != NoPid.
	OwnerPageIndex int
	// EverWritten becomes true the first time this block is written to
	// disk and stays true until the owning page is destroyed.
	EverWritten bool
}

func (b *Block) free() bool {
	return b.OwnerPid == NoPid
}

/// Table is the fixed-size array of Block descriptors allocated at Init.
type Table struct {
	blocks []Block
}

/// New allocates a Table of n blocks, all unowned and never written.
func New(n int) *Table {
	t := &Table{blocks: make([]Block, n)}
	for i := range t.blocks {
		t.blocks[i].OwnerPid = NoPid
	}
	return t
}

/// Len reports the total number of blocks.
func (t *Table) Len() int {
	return len(t.blocks)
}

/// At returns a pointer to the block at idx for direct mutation by the
/// pager (EverWritten is flipped during eviction write-back).
func (t *Table) At(idx int) *Block {
	return &t.blocks[idx]
}

/// Reserve finds the lowest-indexed free block, binds it to
/// (ownerPid, ownerPageIndex) and returns its index. ok is false, with no
/// state change, when no block is free.
func (t *Table) Reserve(ownerPid, ownerPageIndex int) (idx int, ok bool) {
	for i := range t.blocks {
		if t.blocks[i].free() {
			t.blocks[i].OwnerPid = ownerPid
			t.blocks[i].OwnerPageIndex = ownerPageIndex
			return i, true
		}
	}
	return 0, false
}

/// Release returns block idx to the free pool and resets it to the clean
/// "never written" baseline, so a later Reserve of the same index always
/// starts from first-touch semantics.
func (t *Table) Release(idx int) {
	t.blocks[idx] = Block{OwnerPid: NoPid}
}

/// FreeCount returns the number of currently unowned blocks.
func (t *Table) FreeCount() int {
	n := 0
	for i := range t.blocks {
		if t.blocks[i].free() {
			n++
		}
	}
	return n
}
