package pager

import (
	"fmt"
	"log"
)

// corruptf reports a violated on-disk invariant — a short read, a
// non-exhausted stream after decode, an overflow chain past
// MaxOverflowBlocks, or a tree descent past MaxHeight — and terminates.
// The core spec treats these as fatal: the caller never sees a
// recoverable error for them, matching the "asserts and terminates"
// policy of §7.
func corruptf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)
	panic(msg)
}
