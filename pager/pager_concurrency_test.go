package pager

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"mempager/simmu"
)

// Exercises spec.md §5's global-lock concurrency model: every pid's
// Create/Extend/Fault/Destroy sequence runs in its own goroutine
// against one shared Pager, contending for the same mutex the whole time,
// including while the simulated MMU is "doing I/O". Grounded on
// golang.org/x/sync/errgroup's fan-out/first-error idiom.
func TestConcurrentProcessesShareOnePager(t *testing.T) {
	const nprocs = 8
	const pagesPerProc = 3

	p, _ := newTestPager(4, nprocs*pagesPerProc)

	var g errgroup.Group
	for n := 0; n < nprocs; n++ {
		pid := n + 1
		g.Go(func() error {
			if err := p.Create(pid); err != nil {
				return fmt.Errorf("pid %d: Create: %w", pid, err)
			}
			vaddrs := make([]uintptr, 0, pagesPerProc)
			for i := 0; i < pagesPerProc; i++ {
				v, err := p.Extend(pid)
				if err != nil {
					return fmt.Errorf("pid %d: Extend: %w", pid, err)
				}
				vaddrs = append(vaddrs, v)
			}
			for _, v := range vaddrs {
				if err := p.Fault(pid, v); err != nil {
					return fmt.Errorf("pid %d: Fault(%#x): %w", pid, v, err)
				}
				// A second fault on the same page exercises the
				// protection-upgrade path too.
				if err := p.Fault(pid, v); err != nil {
					return fmt.Errorf("pid %d: second Fault(%#x): %w", pid, v, err)
				}
			}
			if err := p.Destroy(pid); err != nil {
				return fmt.Errorf("pid %d: Destroy: %w", pid, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if p.reg.Len() != 0 {
		t.Fatalf("registry.Len() = %d after every pid destroyed, want 0", p.reg.Len())
	}
	if p.blocks.FreeCount() != nprocs*pagesPerProc {
		t.Fatalf("FreeCount() = %d, want every block released", p.blocks.FreeCount())
	}
}

// Many readers racing Fault/Syslog against a handful of processes, none of
// which ever panics or deadlocks, since every entry point serializes on
// the same mutex regardless of which pid it names.
func TestConcurrentFaultAndSyslogDoNotRace(t *testing.T) {
	p, s := newTestPager(2, 8)
	const nprocs = 4
	vaddrs := make(map[int]uintptr, nprocs)
	for pid := 1; pid <= nprocs; pid++ {
		mustCreate(t, p, pid)
		vaddrs[pid] = mustExtend(t, p, pid)
	}
	copy(s.Pmem(), []byte{1, 2, 3, 4})

	var g errgroup.Group
	for pid := 1; pid <= nprocs; pid++ {
		pid := pid
		v := vaddrs[pid]
		g.Go(func() error {
			for i := 0; i < 16; i++ {
				if err := p.Fault(pid, v); err != nil {
					return err
				}
				var discard bufferWriter
				_ = p.Syslog(&discard, pid, v, 4)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// bufferWriter discards everything written to it; used where a test needs
// an io.Writer but never inspects the output.
type bufferWriter struct{}

func (bufferWriter) Write(b []byte) (int, error) { return len(b), nil }
