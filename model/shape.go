// Package model implements the Symbol Store (spec §3.3): the in-memory,
// relational representation of a parsed Smithy model — shapes, names,
// traits, mixins, metadata, and the service root — plus lookup helpers.
package model

import "github.com/boynton/smithygen/id"

// Kind discriminates the variant a Shape holds. Smithy's shape graph is
// represented as a single tagged struct (one Kind enum plus the
// kind-specific fields below) rather than an interface hierarchy, per the
// "discriminated unions everywhere" design note (spec §9): every edge is
// id-valued, so there is no reference-cycle concern, and callers that want
// exhaustiveness checking can switch on Kind directly.
type Kind int

const (
	KindUnit Kind = iota
	KindBlob
	KindBoolean
	KindString
	KindByte
	KindShort
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindBigInteger
	KindBigDecimal
	KindTimestamp
	KindDocument
	KindTarget
	KindStrEnum
	KindIntEnum
	KindList
	KindMap
	KindStructure
	KindTaggedUnion
	KindOperation
	KindResource
	KindService
)

// leafKinds are the primitive, no-payload shape kinds (spec §3.2).
var leafKinds = map[Kind]bool{
	KindUnit: true, KindBlob: true, KindBoolean: true, KindString: true,
	KindByte: true, KindShort: true, KindInteger: true, KindLong: true,
	KindFloat: true, KindDouble: true, KindBigInteger: true,
	KindBigDecimal: true, KindTimestamp: true, KindDocument: true,
}

// IsLeaf reports whether k is a primitive, payload-less shape kind.
func (k Kind) IsLeaf() bool { return leafKinds[k] }

// OperationShape holds the input/output/errors of an "operation" shape.
type OperationShape struct {
	Input  id.ShapeId // NULL if absent
	Output id.ShapeId // NULL if absent
	Errors []id.ShapeId
}

// ResourceShape holds a "resource" shape's identifiers, properties,
// lifecycle operation slots, and bound operations/sub-resources.
type ResourceShape struct {
	Identifiers          []NamedRef // ordered name -> ShapeId
	Properties           []NamedRef
	Create               id.ShapeId
	Put                  id.ShapeId
	Read                 id.ShapeId
	Update               id.ShapeId
	Delete               id.ShapeId
	List                 id.ShapeId
	Operations           []id.ShapeId
	CollectionOperations []id.ShapeId
	Resources            []id.ShapeId
}

// ServiceShape holds a "service" shape's version, bound operations and
// resources, declared errors, and shape renames.
type ServiceShape struct {
	Version    string
	Operations []id.ShapeId
	Resources  []id.ShapeId
	Errors     []id.ShapeId
	Rename     []NamedRef
}

// NamedRef pairs a name with a ShapeId, preserving declaration order in
// slices where Go's native map would not (spec §3.3/§5 ordering
// guarantees).
type NamedRef struct {
	Name string
	ID   id.ShapeId
}

// Shape is the tagged union of every shape variant the Symbol Store can
// hold (spec §3.2). Only the fields relevant to Kind are populated; the
// zero value of the others is meaningless and must not be read.
type Shape struct {
	Kind Kind

	// KindTarget
	Target id.ShapeId

	// KindStrEnum, KindIntEnum: ordered member ids.
	// KindList: Members[0] is the element member.
	// KindMap: Members[0] is the key member, Members[1] the value member.
	// KindStructure, KindTaggedUnion: ordered member ids.
	Members []id.ShapeId

	Operation *OperationShape
	Resource  *ResourceShape
	Service   *ServiceShape
}

// Leaf constructs a payload-less primitive Shape.
func Leaf(k Kind) Shape { return Shape{Kind: k} }

// TargetShape constructs a member-indirection Shape.
func TargetShape(target id.ShapeId) Shape { return Shape{Kind: KindTarget, Target: target} }

// Aggregate constructs a list/map/structure/union/enum Shape from its
// ordered member ids.
func Aggregate(k Kind, members []id.ShapeId) Shape {
	return Shape{Kind: k, Members: members}
}
