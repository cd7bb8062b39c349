// Command pagerbench drives a pager with many concurrent simulated
// processes under CPU profiling and reports the hottest function by
// self time, to spot where the global lock (spec.md §5) becomes the
// bottleneck as concurrency grows.
//
// Grounded on biscuit/src/kernel/chentry.go's plain os.Args/log.Fatal
// command-line shape, golang.org/x/sync/errgroup for the fan-out (the same
// library pager/pager_concurrency_test.go exercises), and
// github.com/google/pprof/profile to parse the runtime/pprof capture back
// out instead of shelling out to `go tool pprof`.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"

	"github.com/google/pprof/profile"
	"golang.org/x/sync/errgroup"

	"mempager/hostenv"
	"mempager/pager"
	"mempager/simmu"
)

func usage(me string) {
	fmt.Printf("%s <nprocs> <pages-per-proc> <nframes>\n", me)
	os.Exit(1)
}

func main() {
	if len(os.Args) != 4 {
		usage(os.Args[0])
	}
	nprocs, err := strconv.Atoi(os.Args[1])
	if err != nil {
		log.Fatalf("nprocs: %v", err)
	}
	pagesPerProc, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("pages-per-proc: %v", err)
	}
	nframes, err := strconv.Atoi(os.Args[3])
	if err != nil {
		log.Fatalf("nframes: %v", err)
	}

	pageSize := hostenv.PageSize()
	nblocks := nprocs * pagesPerProc
	sim := simmu.New(nframes, nblocks, pageSize)
	p := pager.Init(sim, 0x2000000000, pageSize, nframes, nblocks, 0)

	var buf bytes.Buffer
	if err := pprof.StartCPUProfile(&buf); err != nil {
		log.Fatal(err)
	}
	if err := drive(p, nprocs, pagesPerProc); err != nil {
		log.Fatal(err)
	}
	pprof.StopCPUProfile()

	fmt.Println(p.Stats.Snapshot().String())

	top, err := topSelfTime(buf.Bytes())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(top)
}

func drive(p *pager.Pager, nprocs, pagesPerProc int) error {
	var g errgroup.Group
	for n := 0; n < nprocs; n++ {
		pid := n + 1
		g.Go(func() error {
			if err := p.Create(pid); err != nil {
				return err
			}
			vaddrs := make([]uintptr, 0, pagesPerProc)
			for i := 0; i < pagesPerProc; i++ {
				v, err := p.Extend(pid)
				if err != nil {
					return err
				}
				vaddrs = append(vaddrs, v)
			}
			for _, v := range vaddrs {
				if err := p.Fault(pid, v); err != nil {
					return err
				}
				if err := p.Fault(pid, v); err != nil { // write fault
					return err
				}
			}
			return p.Destroy(pid)
		})
	}
	return g.Wait()
}

// topSelfTime parses a pprof CPU profile and names the function that
// accumulated the most self (flat) sample time.
func topSelfTime(data []byte) (string, error) {
	prof, err := profile.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing profile: %w", err)
	}
	if len(prof.SampleType) == 0 {
		return "", fmt.Errorf("profile has no sample types")
	}

	self := make(map[string]int64)
	for _, sample := range prof.Sample {
		if len(sample.Location) == 0 || len(sample.Value) == 0 {
			continue
		}
		leaf := sample.Location[0]
		if len(leaf.Line) == 0 {
			continue
		}
		name := leaf.Line[0].Function.Name
		self[name] += sample.Value[0]
	}

	type entry struct {
		name string
		v    int64
	}
	entries := make([]entry, 0, len(self))
	for name, v := range self {
		entries = append(entries, entry{name, v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].v > entries[j].v })

	if len(entries) == 0 {
		return "top self time: (no samples)", nil
	}
	return fmt.Sprintf("top self time: %s (%d samples)", entries[0].name, entries[0].v), nil
}
