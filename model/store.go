package model

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/traits"
)

// TraitEntry is one applied trait on a shape: the trait's id and its
// (possibly absent) opaque payload. Stored as an ordered slice per shape
// because "apply" declarations append to the list in encounter order,
// with no deduplication (spec §3.3, §4.4).
type TraitEntry struct {
	TraitID id.ShapeId
	Payload *traits.Payload
}

// Store is the Symbol Store (spec §3.3): the full in-memory model of one
// parsed Smithy document. All maps preserve insertion/declaration order,
// matching spec §5's ordering guarantees, via a general-purpose ordered
// map rather than the hand-rolled key-slice-plus-Go-map pattern the
// teacher used in ast.go/struct_helpers.go.
type Store struct {
	ServiceID id.ShapeId

	Metadata *orderedmap.OrderedMap[id.ShapeId, MetaValue]
	Shapes   *orderedmap.OrderedMap[id.ShapeId, Shape]
	Names    *orderedmap.OrderedMap[id.ShapeId, string]
	Traits   *orderedmap.OrderedMap[id.ShapeId, []TraitEntry]
	Mixins   *orderedmap.OrderedMap[id.ShapeId, []id.ShapeId]
}

// New returns an empty Symbol Store.
func New() *Store {
	return &Store{
		ServiceID: id.NULL,
		Metadata:  orderedmap.New[id.ShapeId, MetaValue](),
		Shapes:    orderedmap.New[id.ShapeId, Shape](),
		Names:     orderedmap.New[id.ShapeId, string](),
		Traits:    orderedmap.New[id.ShapeId, []TraitEntry](),
		Mixins:    orderedmap.New[id.ShapeId, []id.ShapeId](),
	}
}

// PutShape records shape under shapeID, overwriting any previous entry.
// Per spec §3.3, no shape is ever mutated after insertion except Traits,
// which AppendTrait below grows independently.
func (s *Store) PutShape(shapeID id.ShapeId, shape Shape) {
	s.Shapes.Set(shapeID, shape)
}

// GetShape looks up a shape by id.
func (s *Store) GetShape(shapeID id.ShapeId) (Shape, bool) {
	return s.Shapes.Get(shapeID)
}

// PutName records the human-readable name for a named shape or a
// non-reserved member. The three reserved member names (member, key,
// value) must never be passed here (spec §3.3/§4.4).
func (s *Store) PutName(shapeID id.ShapeId, name string) {
	s.Names.Set(shapeID, name)
}

// GetName looks up a shape's human-readable name.
func (s *Store) GetName(shapeID id.ShapeId) (string, bool) {
	return s.Names.Get(shapeID)
}

// AppendTrait appends a trait application to shapeID's trait list,
// preserving order and never deduplicating — this is also how "apply"
// declarations merge into an already-declared shape (spec §4.4).
func (s *Store) AppendTrait(shapeID id.ShapeId, entry TraitEntry) {
	existing, _ := s.Traits.Get(shapeID)
	existing = append(existing, entry)
	s.Traits.Set(shapeID, existing)
}

// Trait returns the first applied entry for traitID on shapeID, if any.
func (s *Store) Trait(shapeID id.ShapeId, traitID id.ShapeId) (TraitEntry, bool) {
	list, ok := s.Traits.Get(shapeID)
	if !ok {
		return TraitEntry{}, false
	}
	for _, e := range list {
		if e.TraitID == traitID {
			return e, true
		}
	}
	return TraitEntry{}, false
}

// HasTrait reports whether shapeID carries traitID at all.
func (s *Store) HasTrait(shapeID id.ShapeId, traitID id.ShapeId) bool {
	_, ok := s.Trait(shapeID, traitID)
	return ok
}

// PutMixins records the ordered parent-shape list a shape mixes in.
func (s *Store) PutMixins(shapeID id.ShapeId, mixins []id.ShapeId) {
	s.Mixins.Set(shapeID, mixins)
}

// MixinsOf returns the ordered mixin list for a shape, if any.
func (s *Store) MixinsOf(shapeID id.ShapeId) []id.ShapeId {
	m, _ := s.Mixins.Get(shapeID)
	return m
}

// ErrDuplicateService is returned by SetService when a second service
// shape is registered in strict mode (spec §9: "Recommended: error in
// strict mode" — the Open Question this module resolves, see DESIGN.md).
type ErrDuplicateService struct {
	Existing id.ShapeId
	New      id.ShapeId
}

func (e *ErrDuplicateService) Error() string {
	return fmt.Sprintf("multiple service shapes in model: %d and %d", e.Existing, e.New)
}

// SetService registers shapeID as the model's service root. In strict
// mode a second call returns ErrDuplicateService instead of silently
// overwriting (spec §4.4/§9).
func (s *Store) SetService(shapeID id.ShapeId, strict bool) error {
	if s.ServiceID != id.NULL && s.ServiceID != shapeID {
		if strict {
			return &ErrDuplicateService{Existing: s.ServiceID, New: shapeID}
		}
	}
	s.ServiceID = shapeID
	return nil
}

// Len returns the number of declared shapes.
func (s *Store) Len() int { return s.Shapes.Len() }

// ShapeIDs returns every declared shape id, in declaration order.
func (s *Store) ShapeIDs() []id.ShapeId {
	ids := make([]id.ShapeId, 0, s.Shapes.Len())
	for pair := s.Shapes.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Merge combines src into s, recording a model-assembly feature the
// distilled spec left implicit (SPEC_FULL §4, grounded on
// boynton-smithy/ast.go's AST.Merge). A shape name collision is an error;
// metadata keys are required to match when present in both.
func (s *Store) Merge(src *Store) error {
	for pair := src.Shapes.Oldest(); pair != nil; pair = pair.Next() {
		if _, exists := s.Shapes.Get(pair.Key); exists {
			return fmt.Errorf("duplicate shape in assembly: %d", pair.Key)
		}
		s.Shapes.Set(pair.Key, pair.Value)
	}
	for pair := src.Names.Oldest(); pair != nil; pair = pair.Next() {
		s.Names.Set(pair.Key, pair.Value)
	}
	for pair := src.Traits.Oldest(); pair != nil; pair = pair.Next() {
		existing, _ := s.Traits.Get(pair.Key)
		s.Traits.Set(pair.Key, append(existing, pair.Value...))
	}
	for pair := src.Mixins.Oldest(); pair != nil; pair = pair.Next() {
		s.Mixins.Set(pair.Key, pair.Value)
	}
	for pair := src.Metadata.Oldest(); pair != nil; pair = pair.Next() {
		if prev, exists := s.Metadata.Get(pair.Key); exists {
			if !metaValueEqual(prev, pair.Value) {
				return fmt.Errorf("conflicting metadata value for key %d", pair.Key)
			}
			continue
		}
		s.Metadata.Set(pair.Key, pair.Value)
	}
	if src.ServiceID != id.NULL {
		if err := s.SetService(src.ServiceID, true); err != nil {
			return err
		}
	}
	return nil
}

func metaValueEqual(a, b MetaValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case MetaBool:
		return a.B == b.B
	case MetaInt:
		return a.I == b.I
	case MetaFloat:
		return a.F == b.F
	case MetaString:
		return a.S == b.S
	case MetaList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !metaValueEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case MetaMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for i := range a.Map {
			if a.Map[i].Key != b.Map[i].Key || !metaValueEqual(a.Map[i].Value, b.Map[i].Value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
