package fasthist

import "fmt"

// NotFound is the sentinel used throughout the package for "no such index",
// mirroring the NotFound constant used pervasively in the NeoML sources this
// package is modeled on.
const NotFound = -1

// assertf panics if cond is false. The core is pure computation over
// validated inputs (spec §7): a broken invariant here means the caller
// misused the builder, not that the data is bad, so we abort rather than
// return an error.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
