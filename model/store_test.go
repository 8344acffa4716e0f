package model

import (
	"testing"

	"github.com/boynton/smithygen/id"
)

func TestPutGetShape(t *testing.T) {
	s := New()
	cityID := id.Of("example.weather#City")
	s.PutShape(cityID, Aggregate(KindStructure, []id.ShapeId{id.Compose("example.weather#City", "name")}))
	got, ok := s.GetShape(cityID)
	if !ok || got.Kind != KindStructure {
		t.Fatalf("unexpected shape: %+v, %v", got, ok)
	}
}

func TestAppendTraitPreservesOrderNoDedup(t *testing.T) {
	s := New()
	shapeID := id.Of("example.weather#City")
	t1 := id.Of("smithy.api#documentation")
	s.AppendTrait(shapeID, TraitEntry{TraitID: t1})
	s.AppendTrait(shapeID, TraitEntry{TraitID: t1})
	list, _ := s.Traits.Get(shapeID)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries (no dedup), got %d", len(list))
	}
}

func TestSetServiceStrictDuplicateErrors(t *testing.T) {
	s := New()
	a := id.Of("example.weather#A")
	b := id.Of("example.weather#B")
	if err := s.SetService(a, true); err != nil {
		t.Fatal(err)
	}
	err := s.SetService(b, true)
	if _, ok := err.(*ErrDuplicateService); !ok {
		t.Fatalf("expected ErrDuplicateService, got %v", err)
	}
}

func TestMergeDetectsDuplicateShape(t *testing.T) {
	a := New()
	b := New()
	shapeID := id.Of("example.weather#City")
	a.PutShape(shapeID, Leaf(KindString))
	b.PutShape(shapeID, Leaf(KindString))
	if err := a.Merge(b); err == nil {
		t.Fatal("expected duplicate shape error")
	}
}

func TestFilterDependencyClosure(t *testing.T) {
	s := New()
	root := id.Of("example.weather#Op")
	input := id.Of("example.weather#OpInput")
	unrelated := id.Of("example.weather#Unrelated")

	s.PutShape(root, Shape{Kind: KindOperation, Operation: &OperationShape{Input: input}})
	s.PutShape(input, Leaf(KindStructure))
	s.PutShape(unrelated, Leaf(KindString))

	filtered := s.Filter([]id.ShapeId{root})
	if _, ok := filtered.GetShape(root); !ok {
		t.Error("expected root in filtered store")
	}
	if _, ok := filtered.GetShape(input); !ok {
		t.Error("expected input in filtered store")
	}
	if _, ok := filtered.GetShape(unrelated); ok {
		t.Error("did not expect unrelated shape in filtered store")
	}
}
