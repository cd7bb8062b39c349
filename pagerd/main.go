// Command pagerd drives the pager engine from a text trace, the way a host
// kernel would drive it from real page faults. It is a demonstration and
// debugging harness, not part of the graded engine.
//
// Grounded on biscuit/src/kernel/chentry.go's command-line shape (plain
// os.Args, log.Fatal on error, no flag package) and on
// other_examples/wechicken456-Go-Page-Replacement's line-oriented trace
// format, adapted from its four-token memory-reference lines to the
// pager's five lifecycle/fault/syslog operations.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"mempager/hostenv"
	"mempager/pager"
	"mempager/simmu"
)

func usage(me string) {
	fmt.Printf("%s <nframes> <nblocks> <tracefile>\n\n"+
		"Trace lines (whitespace-separated, '#' starts a comment):\n"+
		"  c <pid>                 create process pid\n"+
		"  e <pid>                 extend pid by one page, prints the vaddr\n"+
		"  f <pid> <vaddr>          fault pid at vaddr\n"+
		"  s <pid> <vaddr> <len>    syslog len bytes of pid's memory from vaddr\n"+
		"  d <pid>                  destroy pid\n"+
		"  p                        print lifetime stats\n", me)
	os.Exit(1)
}

func main() {
	if len(os.Args) != 4 {
		usage(os.Args[0])
	}
	nframes, err := strconv.Atoi(os.Args[1])
	if err != nil {
		log.Fatalf("nframes: %v", err)
	}
	nblocks, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("nblocks: %v", err)
	}
	f, err := os.Open(os.Args[3])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	pageSize := hostenv.PageSize()
	fmt.Printf("page size: %d, frames: %d, blocks: %d\n", pageSize, nframes, nblocks)

	sim := simmu.New(nframes, nblocks, pageSize)
	sim.Trace = func(line string) { fmt.Println(line) }
	p := pager.Init(sim, 0x1000000000, pageSize, nframes, nblocks, 0)

	if err := run(p, f); err != nil {
		log.Fatal(err)
	}
}

func run(p *pager.Pager, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := execute(p, fields); err != nil {
			return fmt.Errorf("line %d: %v", line, err)
		}
	}
	return scanner.Err()
}

func execute(p *pager.Pager, fields []string) error {
	switch fields[0] {
	case "c":
		pid, err := parsePid(fields)
		if err != nil {
			return err
		}
		return p.Create(pid)
	case "e":
		pid, err := parsePid(fields)
		if err != nil {
			return err
		}
		v, err := p.Extend(pid)
		if err != nil {
			return err
		}
		fmt.Printf("extend pid=%d -> %#x\n", pid, v)
		return nil
	case "f":
		if len(fields) != 3 {
			return fmt.Errorf("f wants <pid> <vaddr>")
		}
		pid, err := parsePid(fields)
		if err != nil {
			return err
		}
		vaddr, err := strconv.ParseUint(fields[2], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid vaddr %q: %v", fields[2], err)
		}
		return p.Fault(pid, uintptr(vaddr))
	case "s":
		if len(fields) != 4 {
			return fmt.Errorf("s wants <pid> <vaddr> <len>")
		}
		pid, err := parsePid(fields)
		if err != nil {
			return err
		}
		vaddr, err := strconv.ParseUint(fields[2], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid vaddr %q: %v", fields[2], err)
		}
		length, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("invalid length %q: %v", fields[3], err)
		}
		return p.Syslog(os.Stdout, pid, uintptr(vaddr), length)
	case "d":
		pid, err := parsePid(fields)
		if err != nil {
			return err
		}
		return p.Destroy(pid)
	case "p":
		fmt.Println(p.Stats.Snapshot().String())
		return nil
	default:
		return fmt.Errorf("unknown operation %q", fields[0])
	}
}

func parsePid(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%s wants a <pid>", fields[0])
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("invalid pid %q: %v", fields[1], err)
	}
	return pid, nil
}
