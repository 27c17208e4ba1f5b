//go:build !unix

package tracelog

import "sync"

var lockMu sync.Mutex

// WithLock runs fn with stderr writes serialized by an in-process mutex.
// flock has no portable non-unix equivalent in the example pack, so
// non-unix builds fall back to intra-process serialization only.
func WithLock(fn func()) {
	lockMu.Lock()
	defer lockMu.Unlock()
	fn()
}
