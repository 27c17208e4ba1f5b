// Package assert centralizes the fatal path for tracker-invariant breaches:
// bugs in this module itself, not conflicts in caller code. A conflict goes
// through internal/exclusivity/report instead, with a formatted two-access
// message; an invariant breach here means the bookkeeping is already wrong
// and there is nothing sensible left to report about the caller.
package assert

import (
	"fmt"
	"os"
)

// Fail prints msg and terminates the process. There is no recoverable path
// for a broken access-set invariant: the list is unwalkable and any code
// running afterward would be operating on corrupt state.
func Fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "exclusivity: internal invariant violated: "+format+"\n", args...)
	os.Exit(2)
}

// Require calls Fail if cond is false.
func Require(cond bool, format string, args ...any) {
	if !cond {
		Fail(format, args...)
	}
}
