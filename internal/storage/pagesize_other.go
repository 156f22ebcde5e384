//go:build !unix

package storage

import "os"

// systemPageSize falls back to the stdlib's own OS page size query on
// non-Unix build targets, where golang.org/x/sys/unix is unavailable.
func systemPageSize() int {
	if sz := os.Getpagesize(); sz > 0 {
		return sz
	}
	return 4096
}
