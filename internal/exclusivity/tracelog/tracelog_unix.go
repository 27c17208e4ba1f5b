//go:build unix

package tracelog

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// lockMu serializes callers within this process; flock only arbitrates
// across processes, so both are needed to fully match the original's
// intra-process + cross-process stderr serialization.
var lockMu sync.Mutex

// WithLock runs fn with stderr held under an OS-level advisory lock, the
// unix rendition of Exclusivity.cpp's _flockfile_stderr/_funlockfile_stderr
// pair, grounded on the x/sys/unix usage surveyed across the example pack.
func WithLock(fn func()) {
	lockMu.Lock()
	defer lockMu.Unlock()

	fd := int(os.Stderr.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err == nil {
		defer unix.Flock(fd, unix.LOCK_UN)
	}
	fn()
}
