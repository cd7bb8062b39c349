// Package page implements the Page descriptor and the per-process Page
// Table: an append-only, contiguous sequence of pages keyed by virtual
// address.
//
// Grounded on biscuit/src/vm/as.go's Vmregion_t/Vminfo_t (an ordered
// sequence of region descriptors consulted by address) and on the REDESIGN
// FLAG in spec.md §9: back-references are indices, never pointers, because
// Pages grows by append and a pointer into it would dangle across a
// reallocating append.
package page

// Page is one virtual page descriptor. It never changes which block backs
// it once created; it may transition between resident and non-resident
// many times across its lifetime.
type Page struct {
	// Vaddr is the page-aligned virtual address this page was handed out
	// at by Extend.
	Vaddr uintptr
	// Block is the index into the Block Table reserved for this page;
	// fixed for the page's lifetime.
	Block int
	// Frame is the index into the Frame Table this page currently
	// occupies. Meaningful only while Valid.
	Frame int
	// Valid is true iff the page is currently backed by a frame.
	Valid bool
	// Dirty is true iff the page has been written since its last load
	// from backing store.
	Dirty bool
}

// Table is one process's page table: pages in the order they were
// extended, at consecutive vaddrs base, base+psz, base+2*psz, ...
type Table struct {
	Base     uintptr
	PageSize int
	Pages    []Page
}

// New returns an empty Table rooted at base with the given page size.
func New(base uintptr, pageSize int) *Table {
	return &Table{Base: base, PageSize: pageSize}
}

// NextVaddr is the virtual address Extend would hand out next.
func (t *Table) NextVaddr() uintptr {
	return t.Base + uintptr(t.PageSize*len(t.Pages))
}

// Append adds a freshly reserved page at NextVaddr and returns its index.
func (t *Table) Append(blockIdx int) int {
	idx := len(t.Pages)
	t.Pages = append(t.Pages, Page{
		Vaddr: t.NextVaddr(),
		Block: blockIdx,
	})
	return idx
}

// At returns a pointer to the page at idx for direct mutation by the
// pager. Panics if idx is out of range, matching the teacher's invariant
// assertions for indices the caller is contractually responsible for.
func (t *Table) At(idx int) *Page {
	return &t.Pages[idx]
}

// Len reports how many pages this process has extended.
func (t *Table) Len() int {
	return len(t.Pages)
}

// IndexFor returns the index of the page containing addr and true, or
// (0, false) if addr falls outside any extended page. Per spec.md §9's
// preferred O(1) alternative to a linear dlist scan: the vaddr sequence is
// an arithmetic progression, so the index is a direct computation.
func (t *Table) IndexFor(addr uintptr) (int, bool) {
	if addr < t.Base {
		return 0, false
	}
	idx := int((addr - t.Base) / uintptr(t.PageSize))
	if idx < 0 || idx >= len(t.Pages) {
		return 0, false
	}
	return idx, true
}
