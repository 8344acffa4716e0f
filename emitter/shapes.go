package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boynton/smithygen/casing"
	"github.com/boynton/smithygen/gen"
	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/model"
	"github.com/boynton/smithygen/traits"
)

// emitListOrMap renders a "list" or "map" shape as a Go type alias (spec
// §4.5): a sparse list/map wraps its element/value type in a pointer; a
// uniqueItems list defers its underlying type to the UniqueListType hook
// when present; a map alias is always rendered with the resolved key type
// (Smithy map keys are always string-shaped in practice, but the key
// member is still resolved rather than assumed).
func (e *emitter) emitListOrMap(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	doc := e.doc(shapeID)
	sparse := e.store.HasTrait(shapeID, traits.Sparse)

	if shape.Kind == model.KindList {
		elemTarget := e.memberTarget(shape.Members[0])
		elemType := e.resolveTypeName(elemTarget)
		if sparse && !strings.HasPrefix(elemType, "*") {
			elemType = "*" + elemType
		}
		goType := "[]" + elemType
		if e.store.HasTrait(shapeID, traits.UniqueItems) && e.hooks.UniqueListType != nil {
			goType = e.hooks.UniqueListType(elemType)
		}
		e.b.TypeAlias(name, doc, goType)
		return nil
	}

	keyTarget := e.memberTarget(shape.Members[0])
	valTarget := e.memberTarget(shape.Members[1])
	keyType := e.resolveTypeName(keyTarget)
	valType := e.resolveTypeName(valTarget)
	if sparse && !strings.HasPrefix(valType, "*") {
		valType = "*" + valType
	}
	e.b.TypeAlias(name, doc, fmt.Sprintf("map[%s]%s", keyType, valType))
	return nil
}

// enumValueString returns a strEnum member's "enumValue" payload, falling
// back to its own declared name when the trait is absent (Smithy permits
// the bare `enum { FOO }` shorthand, whose value is the member name).
func (e *emitter) enumValueString(memberID id.ShapeId, memberName string) string {
	entry, ok := e.store.Trait(memberID, traits.EnumValue)
	if !ok {
		return memberName
	}
	s, err := traits.Get[string](*entry.Payload)
	if err != nil {
		return memberName
	}
	return s
}

func (e *emitter) enumValueInt(memberID id.ShapeId, ordinal int) int64 {
	entry, ok := e.store.Trait(memberID, traits.EnumValue)
	if !ok {
		return int64(ordinal)
	}
	n, err := traits.Get[int64](*entry.Payload)
	if err != nil {
		return int64(ordinal)
	}
	return n
}

// emitStrEnum renders a "strEnum" shape as a string-backed Go enum plus a
// non-exhaustive UNKNOWN sentinel and Parse/String round-trip helpers
// (spec §4.5, §8 scenario 2).
func (e *emitter) emitStrEnum(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	doc := e.doc(shapeID)

	type variant struct {
		constName string
		value     string
	}
	var variants []variant
	for _, memberID := range shape.Members {
		memberName, _ := e.store.GetName(memberID)
		value := e.enumValueString(memberID, memberName)
		variants = append(variants, variant{constName: name + casing.Pascal(memberName), value: value})
	}

	e.b.BeginEnum(name, doc, "string")
	e.b.EnumMember(name+"Unknown", `""`)
	for _, v := range variants {
		e.b.EnumMember(v.constName, fmt.Sprintf("%q", v.value))
	}
	e.b.EndEnum()

	e.b.BeginFunction("Parse"+name, "Parse"+name+" maps a wire value onto its known variant, or "+name+"Unknown if none matches.",
		[2]string{}, [][2]string{{"s", "string"}}, []string{name})
	for _, v := range variants {
		e.b.BeginIf("s == %q", v.value)
		e.b.Return(v.constName)
		e.b.EndIf()
	}
	e.b.Return(name + "Unknown")
	e.b.EndFunction()

	e.b.BeginFunction("String", "", [2]string{"v", name}, nil, []string{"string"})
	e.b.Return("string(v)")
	e.b.EndFunction()
	return nil
}

// emitIntEnum renders an "intEnum" shape as an integer-backed Go enum
// plus an open sentinel and trivial Parse/Int round-trip helpers (spec
// §4.5, §8 scenario 3).
func (e *emitter) emitIntEnum(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	doc := e.doc(shapeID)

	type variant struct {
		constName string
		value     int64
	}
	var variants []variant
	for i, memberID := range shape.Members {
		memberName, _ := e.store.GetName(memberID)
		variants = append(variants, variant{constName: name + casing.Pascal(memberName), value: e.enumValueInt(memberID, i)})
	}

	e.b.BeginEnum(name, doc, "int32")
	e.b.EnumMember(name+"Unknown", "0")
	for _, v := range variants {
		e.b.EnumMember(v.constName, strconv.FormatInt(v.value, 10))
	}
	e.b.EndEnum()

	e.b.BeginFunction(name+"FromInt", "", [2]string{}, [][2]string{{"n", "int32"}}, []string{name})
	for _, v := range variants {
		e.b.BeginIf("n == %d", v.value)
		e.b.Return(v.constName)
		e.b.EndIf()
	}
	e.b.Return(name + "Unknown")
	e.b.EndFunction()

	e.b.BeginFunction("Int", "", [2]string{"v", name}, nil, []string{"int32"})
	e.b.Return("int32(v)")
	e.b.EndFunction()
	return nil
}

// emitTaggedUnion renders a "union" shape as a tagged Go struct: a
// companion Kind enum plus one nilable field per variant, tag-only
// variants (target "unit") carrying no payload field (spec §4.5).
func (e *emitter) emitTaggedUnion(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	doc := e.doc(shapeID)
	members := e.collectMembers(shapeID)

	e.b.BeginEnum(name+"Kind", "", "int")
	for _, m := range members {
		e.b.EnumMember(name+casing.Pascal(m.Name), "")
	}
	e.b.EndEnum()

	e.b.BeginUnion(name, doc)
	for _, m := range members {
		target := e.memberTarget(m.ID)
		targetShape, _ := e.store.GetShape(target)
		payloadType := ""
		if targetShape.Kind != model.KindUnit {
			payloadType = e.resolveTypeName(target)
		}
		e.b.UnionVariant(casing.Pascal(m.Name), payloadType)
	}
	e.b.EndUnion()
	return nil
}

// defaultValueExpr renders a member's "default" trait value as the
// annotation textbuilder.StructField attaches to a field declaration
// (Go struct fields cannot carry a live default expression, so this is
// documentation, not executable initialization). A strEnum-targeted
// default renders as the matching generated variant constant name; an
// intEnum-targeted default renders as the generated FromInt constructor
// call; any other target renders the literal value as-is (spec §4.5
// "Default value rendering", spec §8 scenario 4's `IntEnum::from_int(8)`
// worked example).
func defaultValueExpr(store *model.Store, targetID id.ShapeId, lv traits.LiteralValue) string {
	shape, ok := store.GetShape(targetID)
	if ok {
		switch shape.Kind {
		case model.KindStrEnum:
			if lv.Kind == traits.LiteralString {
				if constName, ok := strEnumConstName(store, targetID, shape, lv.Str); ok {
					return constName
				}
			}
		case model.KindIntEnum:
			if lv.Kind == traits.LiteralNumber {
				return ShapeName(store, targetID) + "FromInt(" + strconv.FormatInt(int64(lv.Num), 10) + ")"
			}
		}
	}
	return defaultLiteralString(lv)
}

// strEnumConstName finds the generated variant constant matching a
// strEnum member's wire value, falling back to the bare `enum { FOO }`
// shorthand where the wire value is the declared member name itself.
func strEnumConstName(store *model.Store, enumID id.ShapeId, shape model.Shape, wireValue string) (string, bool) {
	name := ShapeName(store, enumID)
	for _, memberID := range shape.Members {
		memberName, ok := store.GetName(memberID)
		if !ok {
			continue
		}
		value := memberName
		if entry, ok := store.Trait(memberID, traits.EnumValue); ok {
			if s, err := traits.Get[string](*entry.Payload); err == nil {
				value = s
			}
		}
		if value == wireValue {
			return name + casing.Pascal(memberName), true
		}
	}
	return "", false
}

// defaultLiteralString renders a trait "default" payload as a plain
// literal (used directly by defaultValueExpr for non-enum targets, and
// recursively for array/map elements).
func defaultLiteralString(lv traits.LiteralValue) string {
	switch lv.Kind {
	case traits.LiteralNull:
		return "null"
	case traits.LiteralBool:
		return strconv.FormatBool(lv.Bool)
	case traits.LiteralNumber:
		return strconv.FormatFloat(lv.Num, 'g', -1, 64)
	case traits.LiteralString:
		return strconv.Quote(lv.Str)
	case traits.LiteralArray:
		parts := make([]string, len(lv.Array))
		for i, v := range lv.Array {
			parts[i] = defaultLiteralString(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case traits.LiteralMap:
		var parts []string
		for k, v := range lv.Map {
			parts = append(parts, k+": "+defaultLiteralString(v))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

// emitStructure renders a "structure" shape as a Go struct, delegating
// error-trait-carrying structures to the required WriteErrorShape hook
// (spec §4.5: member pull order, optionality rule, error side-constants).
func (e *emitter) emitStructure(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	members := e.collectMembers(shapeID)
	isOperationInput := e.operationInputs[shapeID]

	for _, m := range members {
		e.resolveTypeName(e.memberTarget(m.ID))
	}

	if e.store.HasTrait(shapeID, traits.Error) {
		if err := e.hooks.WriteErrorShape(e.b, e.store, shapeID, name); err != nil {
			return e.reportIssue(IssueShapeCodegenFail, shapeID, err.Error(), e.policy.ShapeCodegenFail)
		}
		return nil
	}

	e.b.BeginStruct(name, e.doc(shapeID))
	for _, m := range members {
		fieldName := casing.Pascal(m.Name)
		typ := e.fieldType(m.ID, isOperationInput)
		tag := fmt.Sprintf(`json:"%s"`, m.Name)
		defaultExpr := ""
		if entry, ok := e.store.Trait(m.ID, traits.Default); ok {
			if lv, err := traits.Get[traits.LiteralValue](*entry.Payload); err == nil {
				defaultExpr = defaultValueExpr(e.store, e.memberTarget(m.ID), lv)
			}
		}
		e.b.StructField(fieldName, typ, tag, defaultExpr)
	}
	e.b.EndStruct()
	return nil
}

// ErrorSourceCodeRetryable computes an error structure's side-constants
// (spec §4.5): source defaults to "client", code defaults to 400 for a
// client error / 500 for a server error unless httpError overrides it,
// and retryable is simply whether the "retryable" trait is present.
func ErrorSourceCodeRetryable(store *model.Store, shapeID id.ShapeId) (source string, code int, retryable bool) {
	source = "client"
	if entry, ok := store.Trait(shapeID, traits.Error); ok {
		if s, err := traits.Get[string](*entry.Payload); err == nil {
			source = s
		}
	}
	code = 400
	if source == "server" {
		code = 500
	}
	if entry, ok := store.Trait(shapeID, traits.HttpError); ok {
		if n, err := traits.Get[int64](*entry.Payload); err == nil {
			code = int(n)
		}
	}
	retryable = store.HasTrait(shapeID, traits.Retryable)
	return source, code, retryable
}

// DefaultWriteErrorShape is a ready-to-wire WriteErrorShape hook: it
// renders one field per collected member with FieldType, then appends the
// error side-constants (spec §4.5). Unlike emitStructure it attaches no
// default-value annotations and uses the documentation trait's text as-is,
// without HTML-to-Markdown conversion.
func DefaultWriteErrorShape(b gen.Builder, store *model.Store, shapeID id.ShapeId, name string) error {
	doc := ""
	if entry, ok := store.Trait(shapeID, traits.Documentation); ok {
		if s, err := traits.Get[string](*entry.Payload); err == nil {
			doc = s
		}
	}
	b.BeginStruct(name, doc)
	for _, m := range CollectMembers(store, shapeID) {
		b.StructField(casing.Pascal(m.Name), FieldType(store, m.ID, false), fmt.Sprintf(`json:"%s"`, m.Name), "")
	}
	b.EndStruct()

	source, code, retryable := ErrorSourceCodeRetryable(store, shapeID)
	b.Constant(name+"Source", "string", strconv.Quote(source))
	b.Constant(name+"Code", "int", strconv.Itoa(code))
	b.Constant(name+"Retryable", "bool", strconv.FormatBool(retryable))
	return nil
}

// DefaultWriteOperationBody is a ready-to-wire WriteOperationBody hook.
// Actual request dispatch is an external collaborator (spec §1 "pipeline
// front-end" is out of scope), so the stub simply panics with a clear
// message; a real client wires its own hook in place of this one.
func DefaultWriteOperationBody(b gen.Builder, store *model.Store, opID id.ShapeId) error {
	b.Stmt("panic(%q)", "operation not implemented: "+ShapeName(store, opID))
	return nil
}

// emitOperation renders an operation's input/output structs plus the
// enclosing service/resource method, and the operation's error union if
// it declares any errors (spec §4.5).
func (e *emitter) emitOperation(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	op := shape.Operation

	if op.Input != id.NULL {
		e.operationInputs[op.Input] = true
		e.enqueue(op.Input)
	}
	if op.Output != id.NULL {
		e.enqueue(op.Output)
	}
	for _, errID := range op.Errors {
		e.enqueue(errID)
		e.noteServiceError(errID)
	}

	if len(op.Errors) > 0 {
		e.b.BeginEnum(name+"ErrorsKind", "", "int")
		for _, errID := range op.Errors {
			e.b.EnumMember(name+"Errors"+casing.Pascal(casing.ErrorVariantName(e.shapeName(errID))), "")
		}
		e.b.EndEnum()
		e.b.BeginUnion(name+"Errors", "")
		for _, errID := range op.Errors {
			e.b.UnionVariant(casing.Pascal(casing.ErrorVariantName(e.shapeName(errID))), e.shapeName(errID))
		}
		e.b.EndUnion()
	}

	inputType := name + "Input"
	if op.Input != id.NULL {
		inputType = e.shapeName(op.Input)
	}
	returnType := name + "Output"
	if e.hooks.OperationReturnType != nil {
		returnType = e.hooks.OperationReturnType(e.store, shapeID)
	} else if op.Output != id.NULL {
		returnType = e.shapeName(op.Output)
	}

	rawName, _ := e.store.GetName(shapeID)
	methodName := casing.OperationMethodName(rawName)

	ownerType := e.operationOwner[shapeID]
	if ownerType == "" {
		ownerType = "Client"
	}
	e.b.BeginFunction(methodName, e.doc(shapeID), [2]string{"c", "*" + ownerType},
		[][2]string{{"input", inputType}}, []string{returnType, "error"})
	if err := e.hooks.WriteOperationBody(e.b, e.store, shapeID); err != nil {
		e.b.EndFunction()
		return e.reportIssue(IssueShapeCodegenFail, shapeID, err.Error(), e.policy.ShapeCodegenFail)
	}
	e.b.EndFunction()
	return nil
}

func (e *emitter) noteServiceError(errID id.ShapeId) {
	if e.serviceErrSeen[errID] {
		return
	}
	e.serviceErrSeen[errID] = true
	e.serviceErrors = append(e.serviceErrors, errID)
}

// emitResource renders a resource's identifier struct, its lifecycle
// methods (create/put/read/update/delete/list), and its non-lifecycle
// operations and child resources (spec §4.5, §8 scenario 5).
func (e *emitter) emitResource(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	res := shape.Resource

	// Identifier and property refs point straight at their target, so a
	// prelude type such as smithy.api#String has no entry in the store.
	refType := func(refID id.ShapeId) string {
		if _, ok := e.store.GetShape(refID); !ok {
			for _, kw := range []string{"blob", "boolean", "string", "byte", "short", "integer", "long",
				"float", "double", "bigInteger", "bigDecimal", "timestamp", "document"} {
				if id.Of(kw) == refID {
					kind, _ := model.KindForBuiltinKeyword(kw)
					typ, _ := builtinGoType(kind)
					return typ
				}
			}
		}
		return e.resolveTypeName(e.memberTarget(refID))
	}

	e.b.BeginStruct(name, e.doc(shapeID))
	for _, ref := range res.Identifiers {
		e.b.StructField(casing.Pascal(ref.Name), refType(ref.ID), fmt.Sprintf(`json:"%s"`, casing.Snake(ref.Name)), "")
	}
	for _, ref := range res.Properties {
		e.b.StructField(casing.Pascal(ref.Name), refType(ref.ID), fmt.Sprintf(`json:"%s"`, casing.Snake(ref.Name)), "")
	}
	e.b.EndStruct()

	for _, opID := range []id.ShapeId{res.Create, res.Put, res.Read, res.Update, res.Delete, res.List} {
		if opID != id.NULL {
			e.operationOwner[opID] = name
			e.enqueue(opID)
		}
	}
	for _, opID := range res.Operations {
		e.operationOwner[opID] = name
		e.enqueue(opID)
	}
	for _, opID := range res.CollectionOperations {
		e.operationOwner[opID] = name
		e.enqueue(opID)
	}
	for _, childID := range res.Resources {
		e.enqueue(childID)
	}
	return nil
}

// emitService renders the top-level service struct, its bound operations
// and resources, and caches its declared errors for the final
// serviceErrors summary (spec §4.5).
func (e *emitter) emitService(shapeID id.ShapeId, shape model.Shape) error {
	name := e.shapeName(shapeID)
	svc := shape.Service

	e.b.BeginStruct(name, e.doc(shapeID))
	e.b.EndStruct()

	if e.hooks.WriteServiceHead != nil {
		e.hooks.WriteServiceHead(e.b, e.store, shapeID, name)
	}

	for _, errID := range svc.Errors {
		e.enqueue(errID)
		e.noteServiceError(errID)
	}
	for _, opID := range svc.Operations {
		e.operationOwner[opID] = name
		e.enqueue(opID)
	}
	for _, resID := range svc.Resources {
		e.enqueue(resID)
		if e.hooks.WriteResourceHead != nil {
			e.hooks.WriteResourceHead(e.b, e.store, resID, e.shapeName(resID))
		}
	}
	return nil
}

// writeServiceErrorsCache emits the flattened list of every error shape
// reachable from the service root, the "Cache service.errors into the
// emitter's serviceErrors field" step of spec §4.5.
func (e *emitter) writeServiceErrorsCache() {
	if len(e.serviceErrors) == 0 {
		return
	}
	e.b.Blank()
	e.b.Comment("serviceErrorNames enumerates every declared error shape reachable from this service.")
	names := make([]string, len(e.serviceErrors))
	for i, errID := range e.serviceErrors {
		names[i] = strconv.Quote(e.shapeName(errID))
	}
	e.b.Stmt("var serviceErrorNames = []string{%s}", strings.Join(names, ", "))
}
