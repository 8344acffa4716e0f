package rules

import "fmt"

// ErrReachedErrorRule is returned by a generated resolver function when
// an "error"-kind Rule's conditions match (spec §4.6, §7).
type ErrReachedErrorRule struct {
	Message string
}

func (e *ErrReachedErrorRule) Error() string {
	return fmt.Sprintf("endpoint resolution reached an error rule: %s", e.Message)
}

// ErrNoRuleMatched is returned when a resolver falls through every rule
// without matching one, which a well-formed rule-set should make
// unreachable (the generator always emits at least the document's
// trailing rules unconditionally when they carry no conditions).
var ErrNoRuleMatched = fmt.Errorf("endpoint resolution: no rule matched")
