package pager

import (
	"fmt"
	"sync/atomic"
)

// Stats accumulates lifetime counters for a Pager, adapted from
// accnt.Accnt_t (biscuit/src/accnt/accnt.go), which accumulates per-process
// user/system time under its own embedded mutex. Here the counters are
// global to one Pager rather than per-process, and use atomics instead of
// a mutex since they are incremented from inside Fault calls that
// already hold the Pager's own lock for everything else — the atomics
// exist so Stats can be read from another goroutine without contending
// that lock.
type Stats struct {
	faults     int64
	hits       int64
	majorFault int64
	evictions  int64
	diskReads  int64
	diskWrites int64
	zeroFills  int64
}

func (s *Stats) incFault()      { atomic.AddInt64(&s.faults, 1) }
func (s *Stats) incHit()        { atomic.AddInt64(&s.hits, 1) }
func (s *Stats) incMajorFault() { atomic.AddInt64(&s.majorFault, 1) }
func (s *Stats) incEviction()   { atomic.AddInt64(&s.evictions, 1) }
func (s *Stats) incDiskRead()   { atomic.AddInt64(&s.diskReads, 1) }
func (s *Stats) incDiskWrite()  { atomic.AddInt64(&s.diskWrites, 1) }
func (s *Stats) incZeroFill()   { atomic.AddInt64(&s.zeroFills, 1) }

// Snapshot is a point-in-time copy of Stats' counters, safe to read
// without racing further updates.
type Snapshot struct {
	Faults      int64
	Hits        int64
	MajorFaults int64
	Evictions   int64
	DiskReads   int64
	DiskWrites  int64
	ZeroFills   int64
}

// Snapshot reads every counter. Individual fields may be read mid-update
// relative to each other since each is loaded independently, matching
// accnt.Accnt_t's own "snapshot is best-effort, not transactional" stance
// on a running process's usage counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Faults:      atomic.LoadInt64(&s.faults),
		Hits:        atomic.LoadInt64(&s.hits),
		MajorFaults: atomic.LoadInt64(&s.majorFault),
		Evictions:   atomic.LoadInt64(&s.evictions),
		DiskReads:   atomic.LoadInt64(&s.diskReads),
		DiskWrites:  atomic.LoadInt64(&s.diskWrites),
		ZeroFills:   atomic.LoadInt64(&s.zeroFills),
	}
}

// String renders a Snapshot the way stats.Stats2String renders the
// teacher's Counter_t/Cycles_t fields, as a single line of space-separated
// "name=value" pairs.
func (sn Snapshot) String() string {
	return fmt.Sprintf(
		"faults=%d hits=%d major_faults=%d evictions=%d disk_reads=%d disk_writes=%d zero_fills=%d",
		sn.Faults, sn.Hits, sn.MajorFaults, sn.Evictions, sn.DiskReads, sn.DiskWrites, sn.ZeroFills,
	)
}
