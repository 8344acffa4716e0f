// Package casing implements the deterministic identifier-casing
// transforms the emitter needs when turning Smithy shape and member names
// into target-language identifiers (spec §4.9).
package casing

import (
	"strings"

	ext "github.com/danielgtaylor/casing"
)

// Snake converts an identifier to snake_case, e.g. "FooBar" -> "foo_bar".
func Snake(s string) string {
	return ext.Snake(s)
}

// Camel converts an identifier to camelCase, e.g. "foo_bar" -> "fooBar".
func Camel(s string) string {
	if s == "" {
		return s
	}
	return ext.LowerCamel(s)
}

// Pascal converts an identifier to PascalCase, e.g. "foo_bar" -> "FooBar".
func Pascal(s string) string {
	return Capitalize(ext.Camel(s))
}

// Title converts an identifier to a human title, e.g. "foo_bar" -> "Foo Bar".
func Title(s string) string {
	words := ext.Split(s)
	for i, w := range words {
		words[i] = Capitalize(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first rune of s, leaving the rest untouched.
// Ported from the teacher's misc.go — kept as a small standalone helper
// since neither ext.Camel nor ext.Snake capitalizes a single leading rune
// without also reshaping word boundaries.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[0:1]) + s[1:]
}

// Uncapitalize lower-cases the first rune of s, leaving the rest untouched.
func Uncapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[0:1]) + s[1:]
}

// StripErrorSuffix removes a trailing "Error" or "Exception" from an error
// shape's name before it is snake-cased into an <Op>Errors union variant
// name (spec §4.5, operation error unions).
func StripErrorSuffix(name string) string {
	for _, suffix := range []string{"Exception", "Error"} {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

// ErrorVariantName produces the snake_cased, suffix-stripped variant name
// used for an error shape inside a generated <Op>Errors union.
func ErrorVariantName(shapeName string) string {
	return Snake(StripErrorSuffix(shapeName))
}

// OperationMethodName produces the camelCase method name for an operation
// shape (spec §4.5: "a method ... of name camelCase(operationName)").
func OperationMethodName(operationName string) string {
	return Camel(operationName)
}
