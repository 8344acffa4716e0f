package parser

// Resolution is how the parser reacts to a recoverable policy-controlled
// issue (spec §4.4).
type Resolution int

const (
	// Skip records the issue in the IssueBag and continues parsing.
	Skip Resolution = iota
	// Abort returns ErrPolicyAbort immediately.
	Abort
)

// Policy controls the parser's reaction to the two independently
// resolvable issue classes (spec §4.4, §7).
type Policy struct {
	Property Resolution
	Trait    Resolution
}

// DefaultPolicy skips both unexpected properties and unknown traits,
// recording them for the caller to inspect afterward.
func DefaultPolicy() Policy {
	return Policy{Property: Skip, Trait: Skip}
}

// StrictPolicy aborts on the first unexpected property or unknown trait.
func StrictPolicy() Policy {
	return Policy{Property: Abort, Trait: Abort}
}
