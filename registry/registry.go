// Package registry implements the Page Table Registry: the set of
// per-process Page Tables, keyed by pid, each process appearing at most
// once.
//
// The capacity counter is adapted from limits.Sysatomic_t
// (biscuit/src/limits/limits.go), which tracks a system-wide resource
// budget by decrementing first and refunding on overflow. The registry
// itself is always called with the Pager's single global mutex held (see
// spec.md §5), so the counter does not need limits.Sysatomic_t's atomic
// add/compare-and-refund; a plain int capturing the same "take, refund on
// failure" shape is enough.
package registry

import "mempager/page"

// capacityUnbounded is the sentinel configured capacity meaning "never
// fails", matching spec.md's "implementation-defined; otherwise no
// failure" default.
const capacityUnbounded = 0

/// Registry maps pid to that process's Page Table.
type Registry struct {
	tables   map[int]*page.Table
	capacity int
	taken    int
}

/// New returns an empty Registry. capacity == 0 means unbounded.
func New(capacity int) *Registry {
	return &Registry{
		tables:   make(map[int]*page.Table),
		capacity: capacity,
	}
}

/// Get returns pid's Page Table and true, or (nil, false) if pid was never
/// Created (or was Removed).
func (r *Registry) Get(pid int) (*page.Table, bool) {
	t, ok := r.tables[pid]
	return t, ok
}

// take reserves one registry slot, refunding immediately if the configured
// capacity would be exceeded. Mirrors limits.Sysatomic_t.Taken's
// decrement-then-check-negative-then-refund shape.
func (r *Registry) take() bool {
	if r.capacity == capacityUnbounded {
		return true
	}
	r.taken++
	if r.taken > r.capacity {
		r.taken--
		return false
	}
	return true
}

func (r *Registry) give() {
	if r.capacity != capacityUnbounded {
		r.taken--
	}
}

/// Create registers pid with a fresh, empty Page Table rooted at base. ok
/// is false, with no state change, only when the registry is already at
/// its configured capacity.
func (r *Registry) Create(pid int, base uintptr, pageSize int) (ok bool) {
	if _, exists := r.tables[pid]; exists {
		panic("registry: Create called twice for the same pid")
	}
	if !r.take() {
		return false
	}
	r.tables[pid] = page.New(base, pageSize)
	return true
}

/// Remove discards pid's Page Table entirely.
func (r *Registry) Remove(pid int) {
	if _, ok := r.tables[pid]; !ok {
		panic("registry: Remove of unknown pid")
	}
	delete(r.tables, pid)
	r.give()
}

/// Len reports how many processes are currently registered.
func (r *Registry) Len() int {
	return len(r.tables)
}
