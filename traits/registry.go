// Package traits implements the extensible trait registry (spec §4.2):
// a mapping from a trait's ShapeId to a parser that consumes its JSON
// payload into an opaque, typed value.
package traits

import (
	"fmt"

	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/jsonstream"
)

// Payload is an opaque, type-erased trait value. Consumers that know a
// trait's concrete payload type recover it with Get.
type Payload struct {
	typeTag string
	value   interface{}
}

// TypeTag identifies the concrete Go type the payload was parsed into,
// letting Get report a clear mismatch error instead of a panic.
func (p Payload) TypeTag() string { return p.typeTag }

// NewPayload wraps a concrete trait value as an opaque Payload. ParseFn
// implementations call this to return their result.
func NewPayload(tag string, value interface{}) Payload {
	return Payload{typeTag: tag, value: value}
}

// Get type-asserts a payload's value as T, returning an error instead of
// panicking on mismatch (spec §9, "Opaque trait payloads").
func Get[T any](p Payload) (T, error) {
	v, ok := p.value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("trait payload type mismatch: tag %q is not %T", p.typeTag, zero)
	}
	return v, nil
}

// ParseFn consumes a trait's JSON payload from r and returns its opaque
// typed value. A nil ParseFn denotes a tag trait whose body is always an
// empty object and is simply skipped.
type ParseFn func(r *jsonstream.Reader) (Payload, error)

// ErrUnknownTrait is returned by Parse when no ParseFn is registered for
// a trait id.
type ErrUnknownTrait struct {
	TraitID id.ShapeId
}

func (e *ErrUnknownTrait) Error() string {
	return fmt.Sprintf("unknown trait: %d", e.TraitID)
}

// Registry maps trait ids to their ParseFn. It is populated once at
// startup and is read-only during parsing, so a single Registry may
// safely be shared (without further synchronization) across concurrently
// processed models (spec §5).
type Registry struct {
	fns map[id.ShapeId]ParseFn
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[id.ShapeId]ParseFn)}
}

// Register associates traitID with fn. A nil fn marks traitID as a tag
// trait (its JSON body is an empty object, consumed and discarded).
func (reg *Registry) Register(traitID id.ShapeId, fn ParseFn) {
	reg.fns[traitID] = fn
}

// RegisterAll registers every (traitID, fn) pair in pairs.
func (reg *Registry) RegisterAll(pairs []struct {
	ID id.ShapeId
	Fn ParseFn
}) {
	for _, p := range pairs {
		reg.Register(p.ID, p.Fn)
	}
}

// Known reports whether traitID has been registered (as a payload trait
// or a tag trait).
func (reg *Registry) Known(traitID id.ShapeId) bool {
	_, ok := reg.fns[traitID]
	return ok
}

// Parse consumes traitID's JSON payload from r. If traitID was registered
// with a nil ParseFn, the payload is expected to be "{}" and is skipped,
// yielding no Payload. If traitID is unregistered, ErrUnknownTrait is
// returned and the caller (the parser's policy layer) decides whether
// that is fatal.
func (reg *Registry) Parse(traitID id.ShapeId, r *jsonstream.Reader) (*Payload, error) {
	fn, ok := reg.fns[traitID]
	if !ok {
		return nil, &ErrUnknownTrait{TraitID: traitID}
	}
	if fn == nil {
		if err := r.NextObjectBegin(); err != nil {
			return nil, err
		}
		if err := r.NextObjectEnd(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	payload, err := fn(r)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}
