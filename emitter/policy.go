package emitter

import "github.com/boynton/smithygen/parser"

// Resolution reuses the parser package's two-valued skip/abort type — the
// Shape Emitter's error policy is the same shape, just with three
// independently resolvable issue classes instead of two (spec §4.5, §7).
type Resolution = parser.Resolution

const (
	Skip  = parser.Skip
	Abort = parser.Abort
)

// Policy controls the emitter's reaction to each of its three
// independently resolvable issue classes.
type Policy struct {
	UnknownShape     Resolution
	InvalidRoot      Resolution
	ShapeCodegenFail Resolution
}

// DefaultPolicy skips every issue class, recording each for later
// inspection via the IssueBag.
func DefaultPolicy() Policy {
	return Policy{UnknownShape: Skip, InvalidRoot: Skip, ShapeCodegenFail: Skip}
}

// StrictPolicy aborts on the first issue of any class.
func StrictPolicy() Policy {
	return Policy{UnknownShape: Abort, InvalidRoot: Abort, ShapeCodegenFail: Abort}
}
