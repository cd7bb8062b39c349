//go:build !unix

package hostenv

import "os"

// PageSize returns the host's native page size, the default seed for
// Pager.Init's pageSize argument absent an explicit override.
func PageSize() int {
	return os.Getpagesize()
}
