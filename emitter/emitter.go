// Package emitter implements the Shape Emitter (spec §4.5): it walks the
// dependency-reachable subgraph of a Symbol Store starting from a root
// shape (almost always the service) and renders one Go type, union, or
// method per shape kind through an abstract gen.Builder, following the
// teacher's single-pass, buffer-accumulating generator style
// (boynton-smithy/generator.go) but driven by a breadth-first worklist
// instead of one fixed method per known shape.
package emitter

import (
	"fmt"

	"github.com/boynton/smithygen/casing"
	"github.com/boynton/smithygen/gen"
	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/model"
	"github.com/boynton/smithygen/traits"
)

// Member is one entry in a structure/union's flattened member list: a
// declared name paired with the member shape id that carries it.
type Member struct {
	Name string
	ID   id.ShapeId
}

// emitter holds the state threaded through one WriteScript traversal.
type emitter struct {
	store  *model.Store
	hooks  Hooks
	policy Policy
	issues *IssueBag
	b      gen.Builder
	docs   *docConverter

	queue    []id.ShapeId
	enqueued map[id.ShapeId]bool
	emitted  map[id.ShapeId]bool

	operationInputs map[id.ShapeId]bool
	operationOwner  map[id.ShapeId]string
	serviceErrors   []id.ShapeId
	serviceErrSeen  map[id.ShapeId]bool
}

// WriteScript renders rootID and every shape it transitively depends on
// into b, in breadth-first discovery order (spec §4.5). rootID is
// ordinarily a service shape, but any aggregate or operation/resource
// shape is accepted; a bare primitive at the root is always rejected
// (spec §4.5 "Root-position primitive rejection").
func WriteScript(b gen.Builder, store *model.Store, hooks Hooks, policy Policy, issues *IssueBag, rootID id.ShapeId) error {
	if hooks.WriteErrorShape == nil || hooks.WriteOperationBody == nil {
		return fmt.Errorf("emitter: WriteErrorShape and WriteOperationBody hooks are required")
	}
	e := &emitter{
		store:           store,
		hooks:           hooks,
		policy:          policy,
		issues:          issues,
		b:               b,
		docs:            newDocConverter(),
		enqueued:        make(map[id.ShapeId]bool),
		emitted:         make(map[id.ShapeId]bool),
		operationInputs: make(map[id.ShapeId]bool),
		operationOwner:  make(map[id.ShapeId]string),
		serviceErrSeen:  make(map[id.ShapeId]bool),
	}
	if hooks.WriteScriptHead != nil {
		hooks.WriteScriptHead(b, store)
	}
	e.enqueue(rootID)
	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		if e.emitted[next] {
			continue
		}
		e.emitted[next] = true
		if err := e.emitShape(next); err != nil {
			if err == ErrPolicyAbort {
				return err
			}
			return err
		}
	}
	if e.store.ServiceID == rootID {
		e.writeServiceErrorsCache()
	}
	return nil
}

func (e *emitter) enqueue(shapeID id.ShapeId) {
	if shapeID == id.NULL || e.enqueued[shapeID] {
		return
	}
	e.enqueued[shapeID] = true
	e.queue = append(e.queue, shapeID)
}

func (e *emitter) doc(shapeID id.ShapeId) string {
	entry, ok := e.store.Trait(shapeID, traits.Documentation)
	if !ok {
		return ""
	}
	html, err := traits.Get[string](*entry.Payload)
	if err != nil {
		return ""
	}
	return e.docs.ToMarkdown(html)
}

// docOrTarget resolves a member's own documentation trait, falling back
// to its target shape's documentation when the member itself carries
// none (spec §4.5 "Docstring handling": member-level doc wins, target
// indirection is the fallback).
func (e *emitter) docOrTarget(memberID id.ShapeId) string {
	if d := e.doc(memberID); d != "" {
		return d
	}
	shape, ok := e.store.GetShape(memberID)
	if !ok || shape.Kind != model.KindTarget {
		return ""
	}
	return e.doc(shape.Target)
}

func (e *emitter) reportIssue(kind IssueKind, shapeID id.ShapeId, detail string, resolution Resolution) error {
	e.issues.Add(Issue{Kind: kind, ShapeID: shapeID, Detail: detail})
	if resolution == Abort {
		return ErrPolicyAbort
	}
	return nil
}

// emitShape dispatches on shapeID's Kind, per spec §4.5's per-kind table.
func (e *emitter) emitShape(shapeID id.ShapeId) error {
	shape, ok := e.store.GetShape(shapeID)
	if !ok {
		return e.reportIssue(IssueUnknownShape, shapeID, "shape not found in store", e.policy.UnknownShape)
	}
	switch shape.Kind {
	case model.KindList, model.KindMap:
		return e.emitListOrMap(shapeID, shape)
	case model.KindStrEnum:
		return e.emitStrEnum(shapeID, shape)
	case model.KindIntEnum:
		return e.emitIntEnum(shapeID, shape)
	case model.KindTaggedUnion:
		return e.emitTaggedUnion(shapeID, shape)
	case model.KindStructure:
		return e.emitStructure(shapeID, shape)
	case model.KindOperation:
		return e.emitOperation(shapeID, shape)
	case model.KindResource:
		return e.emitResource(shapeID, shape)
	case model.KindService:
		return e.emitService(shapeID, shape)
	case model.KindTarget:
		e.enqueue(shape.Target)
		return nil
	default:
		if shape.Kind.IsLeaf() {
			return e.reportIssue(IssueInvalidRoot, shapeID, "primitive shape at root position", e.policy.InvalidRoot)
		}
		return e.reportIssue(IssueUnknownShape, shapeID, "unhandled shape kind", e.policy.UnknownShape)
	}
}

// CollectMembers flattens shapeID's member list, pulling mixin members in
// depth-first, mixins-first order and then appending shapeID's own
// declared members, with a same-named own member overriding the
// position of its mixin-inherited counterpart rather than duplicating it
// (spec §4.5 "Members are recursively pulled from all mixins"). Exported
// so Hooks implementations can render the same member list the emitter
// itself computed.
func CollectMembers(store *model.Store, shapeID id.ShapeId) []Member {
	var result []Member
	index := make(map[string]int)
	seen := make(map[id.ShapeId]bool)
	var walk func(id.ShapeId)
	walk = func(sid id.ShapeId) {
		if seen[sid] {
			return
		}
		seen[sid] = true
		for _, mixinID := range store.MixinsOf(sid) {
			walk(mixinID)
		}
		shape, ok := store.GetShape(sid)
		if !ok {
			return
		}
		for _, memberID := range shape.Members {
			name, ok := store.GetName(memberID)
			if !ok {
				continue
			}
			if idx, exists := index[name]; exists {
				result[idx] = Member{Name: name, ID: memberID}
				continue
			}
			index[name] = len(result)
			result = append(result, Member{Name: name, ID: memberID})
		}
	}
	walk(shapeID)
	return result
}

func (e *emitter) collectMembers(shapeID id.ShapeId) []Member { return CollectMembers(e.store, shapeID) }

// builtinGoType maps a primitive Kind to its Go rendering (spec §4.5,
// "Scalar mapping").
func builtinGoType(k model.Kind) (string, bool) {
	switch k {
	case model.KindUnit:
		return "struct{}", true
	case model.KindBlob:
		return "[]byte", true
	case model.KindBoolean:
		return "bool", true
	case model.KindString:
		return "string", true
	case model.KindByte:
		return "int8", true
	case model.KindShort:
		return "int16", true
	case model.KindInteger:
		return "int32", true
	case model.KindLong:
		return "int64", true
	case model.KindFloat:
		return "float32", true
	case model.KindDouble:
		return "float64", true
	case model.KindBigInteger:
		return "*big.Int", true
	case model.KindBigDecimal:
		return "*big.Float", true
	case model.KindTimestamp:
		return "time.Time", true
	case model.KindDocument:
		return "interface{}", true
	default:
		return "", false
	}
}

// ShapeName returns shape's Pascal-cased human-readable name, or a
// synthetic placeholder if it carries none.
func ShapeName(store *model.Store, shapeID id.ShapeId) string {
	name, ok := store.GetName(shapeID)
	if !ok {
		return fmt.Sprintf("Shape%d", shapeID)
	}
	return casing.Pascal(name)
}

// MemberTarget follows a member's KindTarget indirection to the real
// shape it refers to.
func MemberTarget(store *model.Store, memberID id.ShapeId) id.ShapeId {
	shape, ok := store.GetShape(memberID)
	if ok && shape.Kind == model.KindTarget {
		return shape.Target
	}
	return memberID
}

// ResolveTypeName returns the Go type a shape reference renders as: the
// mapped Go primitive for a builtin leaf, or the shape's own Pascal-cased
// name otherwise, following any KindTarget indirection first. It does not
// enqueue shapeID for emission — callers that need that do it themselves.
func ResolveTypeName(store *model.Store, shapeID id.ShapeId) string {
	shape, ok := store.GetShape(shapeID)
	if !ok {
		return ShapeName(store, shapeID)
	}
	if shape.Kind == model.KindTarget {
		return ResolveTypeName(store, shape.Target)
	}
	if t, ok := builtinGoType(shape.Kind); ok {
		return t
	}
	return ShapeName(store, shapeID)
}

// IsOptional applies the member optionality rule (spec §4.5): a member is
// non-optional only when its owning structure is not an operation input,
// the member carries "required" or "default", and it does not carry
// "clientOptional".
func IsOptional(store *model.Store, memberID id.ShapeId, owningIsOperationInput bool) bool {
	if owningIsOperationInput {
		return true
	}
	if store.HasTrait(memberID, traits.ClientOptional) {
		return true
	}
	if store.HasTrait(memberID, traits.Required) || store.HasTrait(memberID, traits.Default) {
		return false
	}
	return true
}

// FieldType renders memberID's Go field type, pointer-wrapping it when
// IsOptional reports true.
func FieldType(store *model.Store, memberID id.ShapeId, owningIsOperationInput bool) string {
	typ := ResolveTypeName(store, MemberTarget(store, memberID))
	if IsOptional(store, memberID, owningIsOperationInput) {
		return "*" + typ
	}
	return typ
}

func (e *emitter) shapeName(shapeID id.ShapeId) string { return ShapeName(e.store, shapeID) }

func (e *emitter) resolveTypeName(shapeID id.ShapeId) string {
	e.enqueueIfUserDefined(shapeID)
	return ResolveTypeName(e.store, shapeID)
}

func (e *emitter) isOptional(memberID id.ShapeId, owningIsOperationInput bool) bool {
	return IsOptional(e.store, memberID, owningIsOperationInput)
}

func (e *emitter) fieldType(memberID id.ShapeId, owningIsOperationInput bool) string {
	target := e.memberTarget(memberID)
	typ := e.resolveTypeName(target)
	if e.isOptional(memberID, owningIsOperationInput) {
		return "*" + typ
	}
	return typ
}

func (e *emitter) memberTarget(memberID id.ShapeId) id.ShapeId {
	return MemberTarget(e.store, memberID)
}

// enqueueIfUserDefined enqueues shapeID for emission unless it resolves
// to a builtin leaf (leaves need no declaration of their own).
func (e *emitter) enqueueIfUserDefined(shapeID id.ShapeId) {
	shape, ok := e.store.GetShape(shapeID)
	if !ok {
		e.enqueue(shapeID)
		return
	}
	if shape.Kind == model.KindTarget {
		e.enqueueIfUserDefined(shape.Target)
		return
	}
	if _, isBuiltin := builtinGoType(shape.Kind); isBuiltin {
		return
	}
	e.enqueue(shapeID)
}
