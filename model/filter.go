package model

import "github.com/boynton/smithygen/id"

// DependencyClosure returns every shape id reachable from roots by
// following member targets, operation input/output/errors, resource
// identifiers/properties/lifecycle/operations/resources, and service
// operations/resources/errors. Trait payloads and mixin lists are not
// inspected, so a shape reached only through them is not included.
//
// Grounded on boynton-smithy/ast.go's AST.noteDependencies; generalized
// from string shape names to interned ShapeId (SPEC_FULL §4).
func (s *Store) DependencyClosure(roots []id.ShapeId) map[id.ShapeId]bool {
	included := make(map[id.ShapeId]bool)
	var walk func(shapeID id.ShapeId)
	walk = func(shapeID id.ShapeId) {
		if shapeID == id.NULL || included[shapeID] {
			return
		}
		included[shapeID] = true
		shape, ok := s.GetShape(shapeID)
		if !ok {
			return
		}
		switch shape.Kind {
		case KindTarget:
			walk(shape.Target)
		case KindStrEnum, KindIntEnum, KindList, KindMap, KindStructure, KindTaggedUnion:
			for _, m := range shape.Members {
				walk(m)
			}
		case KindOperation:
			walk(shape.Operation.Input)
			walk(shape.Operation.Output)
			for _, e := range shape.Operation.Errors {
				walk(e)
			}
		case KindResource:
			for _, nr := range shape.Resource.Identifiers {
				walk(nr.ID)
			}
			for _, nr := range shape.Resource.Properties {
				walk(nr.ID)
			}
			walk(shape.Resource.Create)
			walk(shape.Resource.Put)
			walk(shape.Resource.Read)
			walk(shape.Resource.Update)
			walk(shape.Resource.Delete)
			walk(shape.Resource.List)
			for _, o := range shape.Resource.Operations {
				walk(o)
			}
			for _, o := range shape.Resource.CollectionOperations {
				walk(o)
			}
			for _, r := range shape.Resource.Resources {
				walk(r)
			}
		case KindService:
			for _, o := range shape.Service.Operations {
				walk(o)
			}
			for _, r := range shape.Service.Resources {
				walk(r)
			}
			for _, e := range shape.Service.Errors {
				walk(e)
			}
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return included
}

// Filter returns a new Store containing only the shapes in the
// dependency closure of roots, along with their names, traits, and
// mixins. The returned store's ServiceID is preserved only if it is
// still present in the closure.
func (s *Store) Filter(roots []id.ShapeId) *Store {
	included := s.DependencyClosure(roots)
	out := New()
	for pair := s.Shapes.Oldest(); pair != nil; pair = pair.Next() {
		if included[pair.Key] {
			out.Shapes.Set(pair.Key, pair.Value)
		}
	}
	for pair := s.Names.Oldest(); pair != nil; pair = pair.Next() {
		if included[pair.Key] {
			out.Names.Set(pair.Key, pair.Value)
		}
	}
	for pair := s.Traits.Oldest(); pair != nil; pair = pair.Next() {
		if included[pair.Key] {
			out.Traits.Set(pair.Key, pair.Value)
		}
	}
	for pair := s.Mixins.Oldest(); pair != nil; pair = pair.Next() {
		if included[pair.Key] {
			out.Mixins.Set(pair.Key, pair.Value)
		}
	}
	for pair := s.Metadata.Oldest(); pair != nil; pair = pair.Next() {
		out.Metadata.Set(pair.Key, pair.Value)
	}
	if included[s.ServiceID] {
		out.ServiceID = s.ServiceID
	}
	return out
}
