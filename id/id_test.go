package id

import "testing"

func TestOfIsDeterministic(t *testing.T) {
	cases := []string{
		"blob", "boolean", "string", "structure",
		"example.weather#City",
		"example.weather#City$name",
	}
	for _, s := range cases {
		if Of(s) != Of(s) {
			t.Errorf("Of(%q) not deterministic", s)
		}
	}
}

func TestComposeMatchesOf(t *testing.T) {
	got := Compose("example.weather#City", "name")
	want := Of("example.weather#City$name")
	if got != want {
		t.Errorf("Compose = %d, want Of(shape$member) = %d", got, want)
	}
}

func TestNullIsEmptyString(t *testing.T) {
	if Of("") != NULL {
		t.Errorf("Of(\"\") = %d, want NULL", Of(""))
	}
}

func TestPreludeAliasesCanonicalize(t *testing.T) {
	pairs := [][2]string{
		{"smithy.api#Boolean", "boolean"},
		{"smithy.api#PrimitiveBoolean", "boolean"},
		{"smithy.api#String", "string"},
		{"smithy.api#Integer", "integer"},
		{"smithy.api#PrimitiveInteger", "integer"},
		{"smithy.api#Timestamp", "timestamp"},
		{"smithy.api#Document", "document"},
	}
	for _, p := range pairs {
		if Of(p[0]) != Of(p[1]) {
			t.Errorf("Of(%q) != Of(%q)", p[0], p[1])
		}
	}
}

func TestIsPrimitiveAlias(t *testing.T) {
	if !IsPrimitiveAlias("smithy.api#PrimitiveBoolean") {
		t.Error("expected PrimitiveBoolean to be a primitive alias")
	}
	if IsPrimitiveAlias("smithy.api#Boolean") {
		t.Error("did not expect boxed Boolean to be a primitive alias")
	}
}

func TestDistinctStringsRarelyCollide(t *testing.T) {
	seen := map[ShapeId]string{}
	names := []string{
		"example.weather#City", "example.weather#Forecast",
		"example.weather#GetCity", "example.weather#GetForecast",
		"example.weather#Weather", "example.weather#CityId",
	}
	for _, n := range names {
		h := Of(n)
		if prev, ok := seen[h]; ok {
			t.Fatalf("unexpected collision between %q and %q", prev, n)
		}
		seen[h] = n
	}
}
