// Package tracelog implements Component I's debug-only trace output:
// deterministic, serialized logging of every insert/remove/push/pop, gated
// behind an environment variable exactly the way Exclusivity.cpp gates its
// verbose dumps behind SWIFT_DEBUG_RUNTIME_EXCLUSIVITY_LOGGING. Interleaved
// goroutines writing trace lines at the same time would otherwise tear each
// other's output, so every write goes through WithLock, mirroring the
// original's flockfile/funlockfile pair around stderr.
package tracelog

import (
	"fmt"
	"os"
	"sync"
)

var (
	enabledOnce sync.Once
	enabledVal  bool
)

// Enabled reports whether EXCLUSIVITY_DEBUG_LOGGING is set, cached after the
// first check rather than re-read on every hot-path call.
func Enabled() bool {
	enabledOnce.Do(func() {
		enabledVal = os.Getenv("EXCLUSIVITY_DEBUG_LOGGING") != ""
	})
	return enabledVal
}

// resetForTest clears the cached Enabled() result so a test can exercise
// both settings within one test binary.
func resetForTest() {
	enabledOnce = sync.Once{}
}

// Tracef writes a trace line under WithLock if and only if Enabled.
func Tracef(format string, args ...any) {
	if !Enabled() {
		return
	}
	WithLock(func() {
		fmt.Fprintf(os.Stderr, "[exclusivity] "+format+"\n", args...)
	})
}
