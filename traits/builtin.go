package traits

import (
	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/jsonstream"
)

// Trait ids for the handful of traits code shape depends on (spec §1).
var (
	Documentation  = id.Of("smithy.api#documentation")
	Default        = id.Of("smithy.api#default")
	Required       = id.Of("smithy.api#required")
	EnumValue      = id.Of("smithy.api#enumValue")
	Sparse         = id.Of("smithy.api#sparse")
	Error          = id.Of("smithy.api#error")
	HttpError      = id.Of("smithy.api#httpError")
	Retryable      = id.Of("smithy.api#retryable")
	UniqueItems    = id.Of("smithy.api#uniqueItems")
	Mixin          = id.Of("smithy.api#mixin")
	ClientOptional = id.Of("smithy.api#clientOptional")
)

// LiteralValue is a minimal untyped JSON literal, used for the "default"
// trait's payload (spec §3.4 MetaValue covers metadata; default traits
// reuse the same small set of JSON scalar/aggregate shapes).
type LiteralValue struct {
	Kind  LiteralKind
	Str   string
	Num   float64
	Bool  bool
	Array []LiteralValue
	Map   map[string]LiteralValue
}

type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBool
	LiteralNumber
	LiteralString
	LiteralArray
	LiteralMap
)

func readLiteral(r *jsonstream.Reader) (LiteralValue, error) {
	kind, err := r.Peek()
	if err != nil {
		return LiteralValue{}, err
	}
	switch kind {
	case jsonstream.KindNull:
		return LiteralValue{Kind: LiteralNull}, r.NextNull()
	case jsonstream.KindBool:
		b, err := r.NextBoolean()
		return LiteralValue{Kind: LiteralBool, Bool: b}, err
	case jsonstream.KindNumber:
		f, err := r.NextFloat()
		return LiteralValue{Kind: LiteralNumber, Num: f}, err
	case jsonstream.KindString:
		s, err := r.NextString()
		return LiteralValue{Kind: LiteralString, Str: s}, err
	case jsonstream.KindArrayBegin:
		var arr []LiteralValue
		err := r.NextScope(func(string) error {
			v, err := readLiteral(r)
			if err != nil {
				return err
			}
			arr = append(arr, v)
			return nil
		})
		return LiteralValue{Kind: LiteralArray, Array: arr}, err
	case jsonstream.KindObjectBegin:
		m := make(map[string]LiteralValue)
		err := r.NextScope(func(name string) error {
			v, err := readLiteral(r)
			if err != nil {
				return err
			}
			m[name] = v
			return nil
		})
		return LiteralValue{Kind: LiteralMap, Map: m}, err
	default:
		tok, _ := r.Next()
		return LiteralValue{}, &jsonstream.UnexpectedToken{Got: tok}
	}
}

// RetryablePayload is the parsed body of the "retryable" trait.
type RetryablePayload struct {
	Throttling bool
}

func parseRetryable(r *jsonstream.Reader) (Payload, error) {
	p := RetryablePayload{}
	err := r.NextScope(func(name string) error {
		switch name {
		case "throttling":
			b, err := r.NextBoolean()
			if err != nil {
				return err
			}
			p.Throttling = b
			return nil
		default:
			return r.SkipValueOrScope()
		}
	})
	return NewPayload("retryable", p), err
}

// MixinPayload is the parsed body of the "mixin" trait.
type MixinPayload struct {
	LocalTraits []string
}

func parseMixin(r *jsonstream.Reader) (Payload, error) {
	p := MixinPayload{}
	err := r.NextScope(func(name string) error {
		switch name {
		case "localTraits":
			return r.NextScope(func(string) error {
				s, err := r.NextString()
				if err != nil {
					return err
				}
				p.LocalTraits = append(p.LocalTraits, s)
				return nil
			})
		default:
			return r.SkipValueOrScope()
		}
	})
	return NewPayload("mixin", p), err
}

func parseString(tag string) ParseFn {
	return func(r *jsonstream.Reader) (Payload, error) {
		s, err := r.NextString()
		return NewPayload(tag, s), err
	}
}

func parseInt(tag string) ParseFn {
	return func(r *jsonstream.Reader) (Payload, error) {
		n, err := r.NextInteger()
		return NewPayload(tag, n), err
	}
}

// parseEnumValue handles "smithy.api#enumValue", whose payload is either
// a bare string (strEnum members) or a bare integer (intEnum members).
func parseEnumValue(r *jsonstream.Reader) (Payload, error) {
	kind, err := r.Peek()
	if err != nil {
		return Payload{}, err
	}
	if kind == jsonstream.KindString {
		s, err := r.NextString()
		return NewPayload("enumValue.string", s), err
	}
	n, err := r.NextInteger()
	return NewPayload("enumValue.int", n), err
}

func parseDefault(r *jsonstream.Reader) (Payload, error) {
	v, err := readLiteral(r)
	return NewPayload("default", v), err
}

// RegisterBuiltins installs ParseFns for every trait the emitter's code
// shape depends on (spec §1): documentation, default, required,
// enumValue, sparse, error, httpError, retryable, uniqueItems, mixin,
// clientOptional. Pure tag/marker traits register a nil ParseFn.
func RegisterBuiltins(reg *Registry) {
	reg.Register(Documentation, parseString("documentation"))
	reg.Register(Default, parseDefault)
	reg.Register(Required, nil)
	reg.Register(EnumValue, parseEnumValue)
	reg.Register(Sparse, nil)
	reg.Register(Error, parseString("error"))
	reg.Register(HttpError, parseInt("httpError"))
	reg.Register(Retryable, parseRetryable)
	reg.Register(UniqueItems, nil)
	reg.Register(Mixin, parseMixin)
	reg.Register(ClientOptional, nil)
}
