//go:build unix

package storage

import "golang.org/x/sys/unix"

// systemPageSize queries the OS page size, falling back to 4096 if the
// syscall itself fails (it practically never does on a real kernel, but
// the fallback keeps construction total).
func systemPageSize() int {
	if sz := unix.Getpagesize(); sz > 0 {
		return sz
	}
	return 4096
}
