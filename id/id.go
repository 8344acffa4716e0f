// Package id implements stable interning for Smithy shape identifiers.
//
// A ShapeId is a 32-bit hash of a shape's canonical byte-string form. The
// same string always hashes to the same id (determinism), and composing a
// parent shape name with a member name yields the same id as hashing the
// fully-qualified "shape$member" string directly.
package id

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ShapeId is an interned, opaque 32-bit key for a shape, member, trait, or
// built-in type name. IDs are never mutated or reinterpreted once minted;
// callers only ever compare or look them up.
type ShapeId uint32

// NULL is the distinguished id for the empty string. It never names a real
// shape and is used as a zero value / sentinel.
const NULL ShapeId = 0

// Of interns s, returning the same ShapeId for the same s on every call.
func Of(s string) ShapeId {
	if canon, ok := preludeAliases[s]; ok {
		s = canon
	}
	if s == "" {
		return NULL
	}
	return ShapeId(uint32(xxhash.Sum64String(s)))
}

// Compose interns the member id for a parent shape and member name. It is
// defined to equal Of(shape + "$" + member).
func Compose(shape string, member string) ShapeId {
	var b strings.Builder
	b.Grow(len(shape) + len(member) + 1)
	b.WriteString(shape)
	b.WriteByte('$')
	b.WriteString(member)
	return Of(b.String())
}

// preludeAliases maps smithy.api prelude aliases (and their Primitive*
// cousins) onto the canonical built-in type keyword they stand for, so
// both forms intern to the same ShapeId.
var preludeAliases = map[string]string{
	"smithy.api#Blob":            "blob",
	"smithy.api#Boolean":         "boolean",
	"smithy.api#PrimitiveBoolean": "boolean",
	"smithy.api#String":          "string",
	"smithy.api#Byte":            "byte",
	"smithy.api#PrimitiveByte":   "byte",
	"smithy.api#Short":           "short",
	"smithy.api#PrimitiveShort":  "short",
	"smithy.api#Integer":         "integer",
	"smithy.api#PrimitiveInteger": "integer",
	"smithy.api#Long":            "long",
	"smithy.api#PrimitiveLong":   "long",
	"smithy.api#Float":           "float",
	"smithy.api#PrimitiveFloat":  "float",
	"smithy.api#Double":          "double",
	"smithy.api#PrimitiveDouble": "double",
	"smithy.api#BigInteger":      "bigInteger",
	"smithy.api#BigDecimal":      "bigDecimal",
	"smithy.api#Timestamp":       "timestamp",
	"smithy.api#Document":        "document",
	"smithy.api#Unit":            "unitType",
}

// IsPreludeAlias reports whether s is one of the smithy.api built-in type
// aliases (including the Primitive* variants) recognized by Of.
func IsPreludeAlias(s string) bool {
	_, ok := preludeAliases[s]
	return ok
}

// CanonicalBuiltin returns the canonical built-in keyword for a smithy.api
// prelude alias, and whether it was an alias at all.
func CanonicalBuiltin(s string) (string, bool) {
	canon, ok := preludeAliases[s]
	return canon, ok
}

// IsPrimitiveAlias reports whether s is one of the smithy.api#Primitive*
// aliases specifically — these carry an implicit zero-value default trait
// on the member that targets them (spec §3.3, §9).
func IsPrimitiveAlias(s string) bool {
	return strings.HasPrefix(s, "smithy.api#Primitive")
}

// bareBuiltinKeywords lets CanonicalBuiltinKeyword recognize a target
// string that already names a built-in type keyword directly, with no
// namespace prefix (spec §3.1).
var bareBuiltinKeywords = map[string]bool{
	"blob": true, "boolean": true, "string": true, "byte": true,
	"short": true, "integer": true, "long": true, "float": true,
	"double": true, "bigInteger": true, "bigDecimal": true,
	"timestamp": true, "document": true, "unitType": true,
}

// CanonicalBuiltinKeyword reports whether a member's "target" string
// names a built-in type — either a bare keyword ("string") or a
// smithy.api prelude alias ("smithy.api#String", "smithy.api#PrimitiveInteger")
// — and if so returns the canonical keyword.
func CanonicalBuiltinKeyword(target string) (string, bool) {
	if canon, ok := preludeAliases[target]; ok {
		return canon, true
	}
	if bareBuiltinKeywords[target] {
		return target, true
	}
	return "", false
}
