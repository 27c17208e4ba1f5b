// Package tlscontext implements Component C: the per-goroutine container
// that pairs a live access.Set with the function-replacement recursion flag.
//
// Go gives user code no reserved thread-local slot and no portable native
// thread_local, so this is the Go-idiomatic rendition of the original
// runtime's SwiftTLSContext: a table keyed by goroutine ID, grounded on the
// teacher's internal/race/api/race.go getCurrentContext()/maybeCleanup()
// pattern. A goroutine's context is created lazily on first use and reclaimed
// by an amortized sweep once the goroutine has exited, approximating
// "destroyed when the thread exits" without a real exit hook.
package tlscontext

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/kolkov/exclusivity/internal/exclusivity/access"
)

// Context is one goroutine's exclusivity-tracking state.
type Context struct {
	// Accesses is this goroutine's live access set.
	Accesses access.Set

	// CallOriginalOfReplacedFunction is unrelated to Accesses; it rides the
	// same per-goroutine container purely because both are "state that
	// belongs to this goroutine's current logical thread of control." See
	// engine.GetFunctionReplacement / engine.GetOriginalOfReplaceable.
	CallOriginalOfReplacedFunction bool
}

var (
	contexts        sync.Map // goroutine ID (int64) -> *Context
	creationCount   atomic.Uint64
	singleThreaded  atomic.Bool
	singleton       Context
	singletonInited atomic.Bool
)

// cleanupInterval amortizes the sweep: a full pass over dead goroutines is
// expensive enough (it parses runtime.Stack's entire dump) that it should
// not run on every context allocation.
const cleanupInterval = 1000

// EnableSingleThreaded switches the whole process to a single static
// Context, the third TLS strategy the spec allows for embedders that are
// known never to run tracked accesses from more than one goroutine. It must
// be called before any access is tracked.
func EnableSingleThreaded() {
	singleThreaded.Store(true)
}

// Current returns (creating if necessary) the calling goroutine's Context.
func Current() *Context {
	if singleThreaded.Load() {
		if singletonInited.CompareAndSwap(false, true) {
			singleton = Context{}
		}
		return &singleton
	}

	gid := goroutineID()
	if v, ok := contexts.Load(gid); ok {
		return v.(*Context)
	}

	ctx := &Context{}
	actual, loaded := contexts.LoadOrStore(gid, ctx)
	if loaded {
		return actual.(*Context)
	}

	if creationCount.Add(1)%cleanupInterval == 0 {
		go sweepDeadGoroutines()
	}
	return ctx
}

// Reset drops every tracked context. Tests use this between cases; a live
// process never needs to call it.
func Reset() {
	contexts.Range(func(key, _ any) bool {
		contexts.Delete(key)
		return true
	})
	creationCount.Store(0)
	singleThreaded.Store(false)
	singletonInited.Store(false)
}

func sweepDeadGoroutines() {
	live := liveGoroutineIDs()
	contexts.Range(func(key, _ any) bool {
		gid := key.(int64)
		if !live[gid] {
			contexts.Delete(gid)
		}
		return true
	})
}

// liveGoroutineIDs parses the full-process goroutine dump the same way the
// teacher's cleanupDeadGoroutines does: it is the only portable way to learn
// which goroutine IDs still exist, since Go exposes no per-goroutine
// liveness check and no exit callback.
func liveGoroutineIDs() map[int64]bool {
	buf := make([]byte, 1<<20)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}

	live := make(map[int64]bool)
	for _, block := range bytes.Split(buf, []byte("\n\n")) {
		if gid, ok := parseGoroutineHeader(block); ok {
			live[gid] = true
		}
	}
	return live
}

// parseGoroutineHeader extracts the numeric ID from a stack dump block's
// leading "goroutine 123 [running]:" line.
func parseGoroutineHeader(block []byte) (int64, bool) {
	const prefix = "goroutine "
	if !bytes.HasPrefix(block, []byte(prefix)) {
		return 0, false
	}
	rest := block[len(prefix):]
	sp := bytes.IndexByte(rest, ' ')
	if sp < 0 {
		return 0, false
	}
	gid, err := strconv.ParseInt(string(rest[:sp]), 10, 64)
	if err != nil {
		return 0, false
	}
	return gid, true
}

// goroutineID returns the calling goroutine's numeric ID, extracted from its
// own single-goroutine stack dump. This is the same slow-path technique the
// teacher's goid_generic.go uses; unlike its goid_fast.go sibling, it needs
// no assembly and works on every Go version and architecture.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	gid, _ := parseGoroutineHeader(buf[:n])
	return gid
}
