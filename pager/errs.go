package pager

import "errors"

// ErrNoFreeBlock is returned by Extend when the Block Table has no free
// block. No state changes when this is returned.
var ErrNoFreeBlock = errors.New("pager: no free backing-store block")

// ErrRegistryFull is returned by Create when the Page Table Registry is at
// its configured capacity.
var ErrRegistryFull = errors.New("pager: page table registry at capacity")

// ErrOutOfRange is returned by Syslog when the requested range is not
// entirely covered by pages the pid has extended, or touches a page that
// is not currently resident. No output is written when this is returned.
var ErrOutOfRange = errors.New("pager: address range not mapped")
