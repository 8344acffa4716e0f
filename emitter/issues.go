package emitter

import (
	"errors"
	"fmt"

	"github.com/boynton/smithygen/id"
)

// ErrPolicyAbort is returned when an emitter Policy resolution of Abort
// is hit (spec §4.5, §7).
var ErrPolicyAbort = errors.New("emitter policy abort")

// IssueKind classifies one recorded, non-fatal emission issue (spec §6.4).
type IssueKind int

const (
	IssueUnknownShape IssueKind = iota
	IssueInvalidRoot
	IssueShapeCodegenFail
)

// Issue is one entry in an IssueBag.
type Issue struct {
	Kind    IssueKind
	ShapeID id.ShapeId
	Detail  string
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueUnknownShape:
		return fmt.Sprintf("codegen_unknown_shape{id=%d}", i.ShapeID)
	case IssueInvalidRoot:
		return fmt.Sprintf("codegen_invalid_root{id=%d}", i.ShapeID)
	case IssueShapeCodegenFail:
		return fmt.Sprintf("codegen_shape_fail{id=%d, err=%s}", i.ShapeID, i.Detail)
	default:
		return "unknown issue"
	}
}

// IssueBag accumulates non-fatal emission issues, in encounter order.
type IssueBag struct {
	issues []Issue
}

func (b *IssueBag) Add(issue Issue) { b.issues = append(b.issues, issue) }
func (b *IssueBag) All() []Issue    { return b.issues }
func (b *IssueBag) Len() int        { return len(b.issues) }
