// Package gen defines the abstract target-language code-construction
// interface the Shape Emitter and Rules Generator render through (spec
// §6.3). Neither the emitter nor the rules generator touches concrete
// syntax directly — a concrete Builder (see internal/textbuilder) turns
// the calls into deterministic source text.
//
// The specification describes a fluent, method-chained surface
// (`constant(name).typing(T).assign(expr)`). This implementation flattens
// that into paired Begin/End calls instead: a chained-interface rendition
// in Go needs one named interface per chain link, which added ceremony
// without changing what is actually required of a Builder — that the
// emitter invokes it in a fixed order and it renders deterministically
// (spec §6.3's only stated contract). The flattened shape keeps that
// contract while staying a single small interface.
package gen

// Builder is the abstract target-language renderer. Declarations
// (structs, unions, enums, functions) are Begin/End bracketed so a
// concrete Builder can track nesting with a simple stack, the way
// boynton-smithy's BaseGenerator accumulates into one buffer.
type Builder interface {
	Import(path string)
	Comment(text string)
	Blank()

	TypeAlias(name, doc, underlying string)

	BeginStruct(name, doc string)
	StructField(name, typ, tag, defaultExpr string)
	EndStruct()

	BeginUnion(name, doc string)
	UnionVariant(name, payloadType string)
	EndUnion()

	BeginEnum(name, doc, backing string)
	EnumMember(name, literal string)
	EndEnum()

	Constant(name, typ, expr string)

	BeginFunction(name, doc string, receiver [2]string, args [][2]string, returns []string)
	Stmt(format string, args ...interface{})
	BeginIf(condFormat string, condArgs ...interface{})
	Else()
	EndIf()
	Return(exprs ...string)
	EndFunction()

	// String renders everything emitted so far.
	String() string
}
