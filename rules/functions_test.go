package rules

import "testing"

func identityLower(v ArgValue) (string, error) {
	switch v.Kind {
	case ArgReference:
		return v.Ref, nil
	case ArgString:
		return "\"" + v.Str + "\"", nil
	case ArgBoolean:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	default:
		return "?", nil
	}
}

func TestBooleanEqualsPeephole(t *testing.T) {
	ref := ArgValue{Kind: ArgReference, Ref: "Foo"}
	trueLit := ArgValue{Kind: ArgBoolean, Bool: true}
	falseLit := ArgValue{Kind: ArgBoolean, Bool: false}

	expr, err := lowerBooleanEquals([]ArgValue{ref, trueLit}, identityLower)
	if err != nil || expr != "Foo" {
		t.Errorf("expected bare reference for booleanEquals(x, true), got %q, %v", expr, err)
	}
	expr, err = lowerBooleanEquals([]ArgValue{ref, falseLit}, identityLower)
	if err != nil || expr != "!(Foo)" {
		t.Errorf("expected negation for booleanEquals(x, false), got %q, %v", expr, err)
	}
	expr, err = lowerBooleanEquals([]ArgValue{ref, ArgValue{Kind: ArgReference, Ref: "Bar"}}, identityLower)
	if err != nil || expr != "Foo == Bar" {
		t.Errorf("expected equality expr, got %q, %v", expr, err)
	}
}

func TestGetAttrPathFinalIndex(t *testing.T) {
	fields, idx, hasIdx, err := GetAttrPath("foo.bar[8]")
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 2 || fields[0] != "foo" || fields[1] != "bar" || !hasIdx || idx != 8 {
		t.Fatalf("unexpected parse: fields=%v idx=%v hasIdx=%v", fields, idx, hasIdx)
	}
}

func TestGetAttrPathRejectsNonFinalIndex(t *testing.T) {
	_, _, _, err := GetAttrPath("foo[8].bar")
	if err != ErrNonFinalIndexer {
		t.Fatalf("expected ErrNonFinalIndexer, got %v", err)
	}
}

func TestLowerGetAttr(t *testing.T) {
	expr, err := lowerGetAttr([]ArgValue{
		{Kind: ArgReference, Ref: "v"},
		{Kind: ArgString, Str: "foo_bar"},
	}, identityLower)
	if err != nil {
		t.Fatal(err)
	}
	if expr != "v.FooBar" {
		t.Errorf("got %q", expr)
	}
}

func TestRegistryLookupUnknownFunction(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Lookup("nope")
	if _, ok := err.(*ErrUnknownFunction); !ok {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestRegistryLookupStandardFunction(t *testing.T) {
	reg := NewRegistry()
	def, err := reg.Lookup("isSet")
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != "isSet" {
		t.Errorf("unexpected def: %+v", def)
	}
}
