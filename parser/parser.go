// Package parser implements the streaming Smithy JSON-AST consumer (spec
// §4.4): it reads shapes, traits, mixins, and metadata off a
// jsonstream.Reader and populates a model.Store, under a two-axis
// skip/abort error Policy.
package parser

import (
	"fmt"

	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/jsonstream"
	"github.com/boynton/smithygen/model"
	"github.com/boynton/smithygen/traits"
)

type parseContext struct {
	r        *jsonstream.Reader
	registry *traits.Registry
	policy   Policy
	issues   *IssueBag
	store    *model.Store
}

// ParseJSON consumes one Smithy JSON-AST document from r, populating and
// returning a new model.Store (spec §4.4's parseJson entry point). Fatal
// schema violations abort immediately; policy-controlled issues are
// recorded in issues (Skip) or abort (Abort) per resolution.
func ParseJSON(registry *traits.Registry, policy Policy, issues *IssueBag, r *jsonstream.Reader) (*model.Store, error) {
	pc := &parseContext{r: r, registry: registry, policy: policy, issues: issues, store: model.New()}
	if err := pc.parseDocument(); err != nil {
		return nil, err
	}
	return pc.store, nil
}

func (pc *parseContext) parseDocument() error {
	sawVersion := false
	err := pc.r.NextScope(func(key string) error {
		switch key {
		case "smithy":
			v, err := pc.r.NextString()
			if err != nil {
				return err
			}
			if v != "2.0" && v != "2" {
				return &ErrInvalidVersion{Got: v}
			}
			sawVersion = true
			return nil
		case "shapes":
			return pc.r.NextScope(func(shapeName string) error {
				return pc.parseShapeValue(shapeName)
			})
		case "metadata":
			return pc.r.NextScope(func(metaKey string) error {
				v, err := parseMetaValue(pc.r)
				if err != nil {
					return err
				}
				pc.store.Metadata.Set(id.Of(metaKey), v)
				return nil
			})
		default:
			pc.issues.Add(Issue{Kind: IssueUnrecognizedTopLevelKey, Item: key})
			return pc.r.SkipValueOrScope()
		}
	})
	if err != nil {
		return err
	}
	if !sawVersion {
		return &ErrInvalidVersion{Got: ""}
	}
	return nil
}

// shapeAccum collects one shape's JSON properties while they stream past,
// in the single pass the Reader allows. "type" is assumed to arrive
// first, matching how every Smithy JSON AST in practice is serialized —
// the parser needs to know the shape's kind before it can interpret a
// later "members"/"member"/"key"/"value" property.
type shapeAccum struct {
	name       string
	typ        string
	traits     []model.TraitEntry
	mixins     []id.ShapeId
	members    []model.NamedRef // structure/union members, in order
	enumMember []model.NamedRef // enum/intEnum members, in order (target is always unit)
	listMember *id.ShapeId
	mapKey     *id.ShapeId
	mapValue   *id.ShapeId

	identifiers []model.NamedRef
	properties  []model.NamedRef
	create      id.ShapeId
	put         id.ShapeId
	read        id.ShapeId
	update      id.ShapeId
	del         id.ShapeId
	list        id.ShapeId
	operations  []id.ShapeId
	resources   []id.ShapeId
	collOps     []id.ShapeId

	input  id.ShapeId
	output id.ShapeId
	errors []id.ShapeId

	version string
	rename  []model.NamedRef
}

func (pc *parseContext) parseShapeValue(shapeName string) error {
	acc := &shapeAccum{name: shapeName, create: id.NULL, put: id.NULL, read: id.NULL,
		update: id.NULL, del: id.NULL, list: id.NULL, input: id.NULL, output: id.NULL}

	err := pc.r.NextScope(func(prop string) error {
		return pc.parseShapeProperty(acc, prop)
	})
	if err != nil {
		return err
	}
	if acc.typ == "" {
		return &ErrMissingProperty{ShapeName: shapeName, Property: "type"}
	}
	return pc.commitShape(acc)
}

// parseShapeProperty dispatches on the packed dense key (spec §4.1) rather
// than comparing the raw string on every shape property.
func (pc *parseContext) parseShapeProperty(acc *shapeAccum, prop string) error {
	r := pc.r
	switch id.PackProperty(prop) {
	case id.PropType:
		s, err := r.NextString()
		if err != nil {
			return err
		}
		acc.typ = s
		return nil
	case id.PropTraits:
		list, err := pc.parseTraitsObject(acc.name)
		if err != nil {
			return err
		}
		acc.traits = list
		return nil
	case id.PropMixins:
		ids, err := pc.parseShapeRefArray()
		if err != nil {
			return err
		}
		acc.mixins = ids
		return nil
	case id.PropMembers:
		if acc.typ == "enum" || acc.typ == "intEnum" {
			members, err := pc.parseEnumMembers(acc.name)
			if err != nil {
				return err
			}
			acc.enumMember = members
			return nil
		}
		members, err := pc.parseTargetedMembers(acc.name)
		if err != nil {
			return err
		}
		acc.members = members
		return nil
	case id.PropMember:
		memberID, err := pc.parseSingleMember(acc.name, "member")
		if err != nil {
			return err
		}
		acc.listMember = &memberID
		return nil
	case id.PropKey:
		memberID, err := pc.parseSingleMember(acc.name, "key")
		if err != nil {
			return err
		}
		acc.mapKey = &memberID
		return nil
	case id.PropValue:
		memberID, err := pc.parseSingleMember(acc.name, "value")
		if err != nil {
			return err
		}
		acc.mapValue = &memberID
		return nil
	case id.PropIdentifiers:
		refs, err := pc.parseNamedShapeRefObject()
		if err != nil {
			return err
		}
		acc.identifiers = refs
		return nil
	case id.PropProperties:
		refs, err := pc.parseNamedShapeRefObject()
		if err != nil {
			return err
		}
		acc.properties = refs
		return nil
	case id.PropCreate:
		return pc.parseSingleRefInto(&acc.create)
	case id.PropPut:
		return pc.parseSingleRefInto(&acc.put)
	case id.PropRead:
		return pc.parseSingleRefInto(&acc.read)
	case id.PropUpdate:
		return pc.parseSingleRefInto(&acc.update)
	case id.PropDelete:
		return pc.parseSingleRefInto(&acc.del)
	case id.PropList:
		return pc.parseSingleRefInto(&acc.list)
	case id.PropOperations:
		ids, err := pc.parseShapeRefArray()
		if err != nil {
			return err
		}
		acc.operations = ids
		return nil
	case id.PropResources:
		ids, err := pc.parseShapeRefArray()
		if err != nil {
			return err
		}
		acc.resources = ids
		return nil
	case id.PropCollectionOperations:
		ids, err := pc.parseShapeRefArray()
		if err != nil {
			return err
		}
		acc.collOps = ids
		return nil
	case id.PropErrors:
		ids, err := pc.parseShapeRefArray()
		if err != nil {
			return err
		}
		acc.errors = ids
		return nil
	case id.PropInput:
		return pc.parseSingleRefInto(&acc.input)
	case id.PropOutput:
		return pc.parseSingleRefInto(&acc.output)
	case id.PropVersion:
		s, err := r.NextString()
		if err != nil {
			return err
		}
		acc.version = s
		return nil
	case id.PropRename:
		renames, err := pc.parseRenameMap()
		if err != nil {
			return err
		}
		acc.rename = renames
		return nil
	default:
		if pc.policy.Property == Abort {
			return ErrPolicyAbort
		}
		pc.issues.Add(Issue{Kind: IssueUnexpectedProperty, Context: acc.name, Item: prop})
		return r.SkipValueOrScope()
	}
}

func (pc *parseContext) parseSingleRefInto(dst *id.ShapeId) error {
	target, err := pc.parseShapeRefObject()
	if err != nil {
		return err
	}
	*dst = id.Of(target)
	return nil
}

// parseShapeRefObject reads {"target": "<shapeId>"}.
func (pc *parseContext) parseShapeRefObject() (string, error) {
	var target string
	err := pc.r.NextScope(func(prop string) error {
		if prop != "target" {
			return pc.r.SkipValueOrScope()
		}
		s, err := pc.r.NextString()
		if err != nil {
			return err
		}
		target = s
		return nil
	})
	return target, err
}

func (pc *parseContext) parseShapeRefArray() ([]id.ShapeId, error) {
	var out []id.ShapeId
	err := pc.r.NextScope(func(string) error {
		target, err := pc.parseShapeRefObject()
		if err != nil {
			return err
		}
		out = append(out, id.Of(target))
		return nil
	})
	return out, err
}

// parseNamedShapeRefObject reads an object of name -> {"target": "..."}.
func (pc *parseContext) parseNamedShapeRefObject() ([]model.NamedRef, error) {
	var out []model.NamedRef
	err := pc.r.NextScope(func(name string) error {
		target, err := pc.parseShapeRefObject()
		if err != nil {
			return err
		}
		out = append(out, model.NamedRef{Name: name, ID: id.Of(target)})
		return nil
	})
	return out, err
}

// parseRenameMap reads an object of absolute-shape-id -> new name.
func (pc *parseContext) parseRenameMap() ([]model.NamedRef, error) {
	var out []model.NamedRef
	err := pc.r.NextScope(func(shapeIDStr string) error {
		newName, err := pc.r.NextString()
		if err != nil {
			return err
		}
		out = append(out, model.NamedRef{Name: newName, ID: id.Of(shapeIDStr)})
		return nil
	})
	return out, err
}

// parseTraitsObject reads a shape or member's "traits" object, keyed by
// trait id, and returns the ordered list of applied TraitEntry values.
func (pc *parseContext) parseTraitsObject(context string) ([]model.TraitEntry, error) {
	var out []model.TraitEntry
	err := pc.r.NextScope(func(traitName string) error {
		traitID := id.Of(traitName)
		payload, err := pc.registry.Parse(traitID, pc.r)
		if err != nil {
			if _, unknown := err.(*traits.ErrUnknownTrait); unknown {
				if pc.policy.Trait == Abort {
					return ErrPolicyAbort
				}
				pc.issues.Add(Issue{Kind: IssueUnknownTrait, Context: context, Item: traitName})
				return pc.r.SkipValueOrScope()
			}
			return err
		}
		out = append(out, model.TraitEntry{TraitID: traitID, Payload: payload})
		return nil
	})
	return out, err
}

// parseSingleMember reads {"target": "...", "traits"?: {...}} for a list
// "member" or map "key"/"value" property, installs the member's own Shape
// entry, and returns its composed id.
func (pc *parseContext) parseSingleMember(parentName string, memberName string) (id.ShapeId, error) {
	memberID := id.Compose(parentName, memberName)
	var target string
	var memberTraits []model.TraitEntry
	err := pc.r.NextScope(func(prop string) error {
		switch prop {
		case "target":
			s, err := pc.r.NextString()
			if err != nil {
				return err
			}
			target = s
			return nil
		case "traits":
			list, err := pc.parseTraitsObject(parentName + "$" + memberName)
			if err != nil {
				return err
			}
			memberTraits = list
			return nil
		default:
			if pc.policy.Property == Abort {
				return ErrPolicyAbort
			}
			pc.issues.Add(Issue{Kind: IssueUnexpectedProperty, Context: parentName + "$" + memberName, Item: prop})
			return pc.r.SkipValueOrScope()
		}
	})
	if err != nil {
		return id.NULL, err
	}
	pc.installMember(memberID, target, memberTraits)
	// member/key/value are reserved names and are never stored in Names.
	return memberID, nil
}

// parseTargetedMembers reads a structure/union/list-of-struct "members"
// object (name -> {target, traits?}), in declaration order.
func (pc *parseContext) parseTargetedMembers(parentName string) ([]model.NamedRef, error) {
	var out []model.NamedRef
	err := pc.r.NextScope(func(memberName string) error {
		memberID := id.Compose(parentName, memberName)
		var target string
		var memberTraits []model.TraitEntry
		ierr := pc.r.NextScope(func(prop string) error {
			switch prop {
			case "target":
				s, err := pc.r.NextString()
				if err != nil {
					return err
				}
				target = s
				return nil
			case "traits":
				list, err := pc.parseTraitsObject(parentName + "$" + memberName)
				if err != nil {
					return err
				}
				memberTraits = list
				return nil
			default:
				if pc.policy.Property == Abort {
					return ErrPolicyAbort
				}
				pc.issues.Add(Issue{Kind: IssueUnexpectedProperty, Context: parentName + "$" + memberName, Item: prop})
				return pc.r.SkipValueOrScope()
			}
		})
		if ierr != nil {
			return ierr
		}
		pc.installMember(memberID, target, memberTraits)
		if memberName != "member" && memberName != "key" && memberName != "value" {
			pc.store.PutName(memberID, memberName)
		}
		out = append(out, model.NamedRef{Name: memberName, ID: memberID})
		return nil
	})
	return out, err
}

// parseEnumMembers reads an enum/intEnum "members" object: each value is
// itself a unit shape, typically carrying an enumValue trait.
func (pc *parseContext) parseEnumMembers(parentName string) ([]model.NamedRef, error) {
	var out []model.NamedRef
	err := pc.r.NextScope(func(memberName string) error {
		memberID := id.Compose(parentName, memberName)
		var memberTraits []model.TraitEntry
		ierr := pc.r.NextScope(func(prop string) error {
			switch prop {
			case "target":
				// Enum members always target smithy.api#Unit; the value
				// carries no information the shape's fixed Kind doesn't.
				_, err := pc.r.NextString()
				return err
			case "traits":
				list, err := pc.parseTraitsObject(parentName + "$" + memberName)
				if err != nil {
					return err
				}
				memberTraits = list
				return nil
			default:
				if pc.policy.Property == Abort {
					return ErrPolicyAbort
				}
				pc.issues.Add(Issue{Kind: IssueUnexpectedProperty, Context: parentName + "$" + memberName, Item: prop})
				return pc.r.SkipValueOrScope()
			}
		})
		if ierr != nil {
			return ierr
		}
		pc.store.PutShape(memberID, model.Leaf(model.KindUnit))
		if memberName != "member" && memberName != "key" && memberName != "value" {
			pc.store.PutName(memberID, memberName)
		}
		for _, te := range memberTraits {
			pc.store.AppendTrait(memberID, te)
		}
		out = append(out, model.NamedRef{Name: memberName, ID: memberID})
		return nil
	})
	return out, err
}

// installMember records a targeted member's Shape entry and traits,
// including the synthesized default trait for smithy.api#Primitive*
// aliases (spec §3.3, §9).
func (pc *parseContext) installMember(memberID id.ShapeId, target string, memberTraits []model.TraitEntry) {
	if kw, ok := id.CanonicalBuiltinKeyword(target); ok {
		kind, _ := model.KindForBuiltinKeyword(kw)
		pc.store.PutShape(memberID, model.Leaf(kind))
	} else {
		pc.store.PutShape(memberID, model.TargetShape(id.Of(target)))
	}
	for _, te := range memberTraits {
		pc.store.AppendTrait(memberID, te)
	}
	if id.IsPrimitiveAlias(target) {
		kw, _ := id.CanonicalBuiltinKeyword(target)
		kind, _ := model.KindForBuiltinKeyword(kw)
		pc.store.AppendTrait(memberID, model.TraitEntry{
			TraitID: traits.Default,
			Payload: zeroDefaultPayload(kind),
		})
	}
}

func zeroDefaultPayload(kind model.Kind) *traits.Payload {
	var lit traits.LiteralValue
	switch kind {
	case model.KindBoolean:
		lit = traits.LiteralValue{Kind: traits.LiteralBool, Bool: false}
	case model.KindString:
		lit = traits.LiteralValue{Kind: traits.LiteralString, Str: ""}
	default:
		lit = traits.LiteralValue{Kind: traits.LiteralNumber, Num: 0}
	}
	p := traits.NewPayload("default", lit)
	return &p
}

func namedRefIDs(refs []model.NamedRef) []id.ShapeId {
	out := make([]id.ShapeId, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return out
}

// commitShape builds the final model.Shape from an accumulated shapeAccum
// and installs it (plus its name, traits, and mixins) into the store.
func (pc *parseContext) commitShape(acc *shapeAccum) error {
	shapeID := id.Of(acc.name)

	if acc.typ == "apply" {
		for _, te := range acc.traits {
			pc.store.AppendTrait(shapeID, te)
		}
		return nil
	}

	if acc.typ == "unitType" {
		return &ErrUnitAtTopLevel{ShapeName: acc.name}
	}

	var shape model.Shape
	switch acc.typ {
	case "blob", "boolean", "string", "byte", "short", "integer", "long",
		"float", "double", "bigInteger", "bigDecimal", "timestamp", "document":
		kind, _ := model.KindForBuiltinKeyword(acc.typ)
		shape = model.Leaf(kind)
	case "enum":
		shape = model.Aggregate(model.KindStrEnum, namedRefIDs(acc.enumMember))
	case "intEnum":
		shape = model.Aggregate(model.KindIntEnum, namedRefIDs(acc.enumMember))
	case "list":
		if acc.listMember == nil {
			return &ErrMissingProperty{ShapeName: acc.name, Property: "member"}
		}
		shape = model.Aggregate(model.KindList, []id.ShapeId{*acc.listMember})
	case "map":
		if acc.mapKey == nil || acc.mapValue == nil {
			return &ErrMissingProperty{ShapeName: acc.name, Property: "key/value"}
		}
		shape = model.Aggregate(model.KindMap, []id.ShapeId{*acc.mapKey, *acc.mapValue})
	case "structure":
		shape = model.Aggregate(model.KindStructure, namedRefIDs(acc.members))
	case "union":
		shape = model.Aggregate(model.KindTaggedUnion, namedRefIDs(acc.members))
	case "operation":
		shape = model.Shape{Kind: model.KindOperation, Operation: &model.OperationShape{
			Input: acc.input, Output: acc.output, Errors: acc.errors,
		}}
	case "resource":
		shape = model.Shape{Kind: model.KindResource, Resource: &model.ResourceShape{
			Identifiers: acc.identifiers, Properties: acc.properties,
			Create: acc.create, Put: acc.put, Read: acc.read, Update: acc.update,
			Delete: acc.del, List: acc.list, Operations: acc.operations,
			CollectionOperations: acc.collOps, Resources: acc.resources,
		}}
	case "service":
		shape = model.Shape{Kind: model.KindService, Service: &model.ServiceShape{
			Version: acc.version, Operations: acc.operations, Resources: acc.resources,
			Errors: acc.errors, Rename: acc.rename,
		}}
	default:
		return &ErrUnknownType{Got: acc.typ}
	}

	pc.store.PutShape(shapeID, shape)
	pc.store.PutName(shapeID, absoluteShapeSuffix(acc.name))
	for _, te := range acc.traits {
		pc.store.AppendTrait(shapeID, te)
	}
	if len(acc.mixins) > 0 {
		pc.store.PutMixins(shapeID, acc.mixins)
	}
	if acc.typ == "service" {
		if err := pc.store.SetService(shapeID, true); err != nil {
			return err
		}
	}
	return nil
}

// absoluteShapeSuffix returns the portion of an absolute shape name after
// its namespace separator ("namespace#Shape" -> "Shape"), per spec §3.3.
func absoluteShapeSuffix(absoluteName string) string {
	for i := len(absoluteName) - 1; i >= 0; i-- {
		if absoluteName[i] == '#' {
			return absoluteName[i+1:]
		}
	}
	return absoluteName
}

// parseMetaValue reads one arbitrary JSON-like metadata value (spec §3.4).
func parseMetaValue(r *jsonstream.Reader) (model.MetaValue, error) {
	kind, err := r.Peek()
	if err != nil {
		return model.MetaValue{}, err
	}
	switch kind {
	case jsonstream.KindNull:
		return model.MetaValue{Kind: model.MetaNull}, r.NextNull()
	case jsonstream.KindBool:
		b, err := r.NextBoolean()
		return model.MetaValue{Kind: model.MetaBool, B: b}, err
	case jsonstream.KindNumber:
		tok, err := r.Next()
		if err != nil {
			return model.MetaValue{}, err
		}
		if n, ierr := tok.Number.Int64(); ierr == nil {
			return model.MetaValue{Kind: model.MetaInt, I: n}, nil
		}
		f, ferr := tok.Number.Float64()
		if ferr != nil {
			return model.MetaValue{}, ferr
		}
		return model.MetaValue{Kind: model.MetaFloat, F: f}, nil
	case jsonstream.KindString:
		s, err := r.NextString()
		return model.MetaValue{Kind: model.MetaString, S: s}, err
	case jsonstream.KindArrayBegin:
		var list []model.MetaValue
		err := r.NextScope(func(string) error {
			v, err := parseMetaValue(r)
			if err != nil {
				return err
			}
			list = append(list, v)
			return nil
		})
		return model.MetaValue{Kind: model.MetaList, List: list}, err
	case jsonstream.KindObjectBegin:
		var entries []model.MetaEntry
		err := r.NextScope(func(key string) error {
			v, err := parseMetaValue(r)
			if err != nil {
				return err
			}
			entries = append(entries, model.MetaEntry{Key: key, Value: v})
			return nil
		})
		return model.MetaValue{Kind: model.MetaMap, Map: entries}, err
	default:
		tok, _ := r.Next()
		return model.MetaValue{}, fmt.Errorf("unexpected token in metadata value: %v", tok)
	}
}
