package casing

import "testing"

func TestCapitalize(t *testing.T) {
	if got := Capitalize("foo"); got != "Foo" {
		t.Errorf("Capitalize(foo) = %q", got)
	}
	if got := Capitalize(""); got != "" {
		t.Errorf("Capitalize(\"\") = %q", got)
	}
}

func TestUncapitalize(t *testing.T) {
	if got := Uncapitalize("FooBar"); got != "fooBar" {
		t.Errorf("Uncapitalize(FooBar) = %q", got)
	}
}

func TestStripErrorSuffix(t *testing.T) {
	cases := map[string]string{
		"NotFoundException": "NotFound",
		"ThrottlingError":    "Throttling",
		"Error":              "Error",
		"BadRequest":         "BadRequest",
	}
	for in, want := range cases {
		if got := StripErrorSuffix(in); got != want {
			t.Errorf("StripErrorSuffix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorVariantName(t *testing.T) {
	if got := ErrorVariantName("NoSuchResourceException"); got != "no_such_resource" {
		t.Errorf("ErrorVariantName = %q", got)
	}
}

func TestOperationMethodName(t *testing.T) {
	if got := OperationMethodName("GetForecast"); got != "getForecast" {
		t.Errorf("OperationMethodName = %q", got)
	}
}
