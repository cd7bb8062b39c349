//go:build unix

// Package hostenv supplies the host facts the pager needs at Init time but
// has no business hard-coding, starting with the native page size.
package hostenv

import "golang.org/x/sys/unix"

// PageSize returns the host's native page size, the default seed for
// Pager.Init's pageSize argument absent an explicit override.
func PageSize() int {
	return unix.Getpagesize()
}
