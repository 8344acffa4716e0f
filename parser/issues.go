package parser

import (
	"errors"
	"fmt"

	"github.com/boynton/smithygen/id"
)

// ErrPolicyAbort is returned when a Policy resolution of Abort is hit.
var ErrPolicyAbort = errors.New("policy abort")

// IssueKind classifies one recorded, non-fatal parse issue (spec §6.4).
type IssueKind int

const (
	IssueUnexpectedProperty IssueKind = iota
	IssueUnknownTrait
	IssueUnrecognizedTopLevelKey
)

// Issue is one entry in an IssueBag.
type Issue struct {
	Kind    IssueKind
	Context string // the shape id (or other scope) the issue occurred in
	Item    string // the property or trait name involved
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueUnexpectedProperty:
		return fmt.Sprintf("parse_unexpected_prop{context=%s, item=%s}", i.Context, i.Item)
	case IssueUnknownTrait:
		return fmt.Sprintf("parse_unknown_trait{context=%s, item=%s}", i.Context, i.Item)
	case IssueUnrecognizedTopLevelKey:
		return fmt.Sprintf("parse_unrecognized_top_level_key{item=%s}", i.Item)
	default:
		return "unknown issue"
	}
}

// IssueBag accumulates non-fatal issues encountered under a Skip
// resolution, in encounter order (spec §6.4).
type IssueBag struct {
	issues []Issue
}

func (b *IssueBag) Add(issue Issue) {
	b.issues = append(b.issues, issue)
}

func (b *IssueBag) All() []Issue { return b.issues }

func (b *IssueBag) Len() int { return len(b.issues) }

// contextName renders a shape id as a context string for issue reporting.
func contextName(shapeID id.ShapeId) string {
	return fmt.Sprintf("%d", shapeID)
}
