package rules

import (
	"fmt"

	"github.com/boynton/smithygen/jsonstream"
)

// ErrEmptyRuleSet is returned by ParseRuleSet when a document has no
// rules at all (spec §7's EmptyRuleSet).
var ErrEmptyRuleSet = fmt.Errorf("rule set has no rules")

// ParseRuleSet consumes one endpoint rule-set JSON document (spec §4.6,
// §6.2): `{"version": "1.0", "parameters": {...}, "rules": [...]}`.
func ParseRuleSet(r *jsonstream.Reader) (*RuleSet, error) {
	rs := &RuleSet{}
	err := r.NextScope(func(key string) error {
		switch key {
		case "version":
			s, err := r.NextString()
			if err != nil {
				return err
			}
			rs.Version = s
			return nil
		case "parameters":
			params, err := parseParameters(r)
			if err != nil {
				return err
			}
			rs.Parameters = params
			return nil
		case "rules":
			list, err := parseRuleArray(r)
			if err != nil {
				return err
			}
			rs.Rules = list
			return nil
		default:
			return r.SkipValueOrScope()
		}
	})
	if err != nil {
		return nil, err
	}
	if len(rs.Rules) == 0 {
		return nil, ErrEmptyRuleSet
	}
	return rs, nil
}

func parseParameters(r *jsonstream.Reader) ([]Parameter, error) {
	var out []Parameter
	err := r.NextScope(func(name string) error {
		p := Parameter{Name: name}
		perr := r.NextScope(func(prop string) error {
			switch prop {
			case "type":
				s, err := r.NextString()
				if err != nil {
					return err
				}
				switch s {
				case "string":
					p.Type = ParamString
				case "boolean":
					p.Type = ParamBoolean
				case "stringArray":
					p.Type = ParamStringArray
				default:
					return fmt.Errorf("rules: parameter %q: unknown type %q", name, s)
				}
				return nil
			case "default":
				v, err := parseArgValue(r)
				if err != nil {
					return err
				}
				p.Default = v
				p.HasDefault = true
				return nil
			case "builtIn":
				s, err := r.NextString()
				if err != nil {
					return err
				}
				p.BuiltIn = s
				p.HasBuiltIn = true
				return nil
			case "required":
				b, err := r.NextBoolean()
				if err != nil {
					return err
				}
				p.Required = b
				return nil
			case "documentation":
				s, err := r.NextString()
				if err != nil {
					return err
				}
				p.Documentation = s
				return nil
			case "deprecated":
				dep := &Deprecated{}
				derr := r.NextScope(func(dprop string) error {
					switch dprop {
					case "message":
						s, err := r.NextString()
						if err != nil {
							return err
						}
						dep.Message = s
						return nil
					case "since":
						s, err := r.NextString()
						if err != nil {
							return err
						}
						dep.Since = s
						return nil
					default:
						return r.SkipValueOrScope()
					}
				})
				if derr != nil {
					return derr
				}
				p.Deprecated = dep
				return nil
			default:
				return r.SkipValueOrScope()
			}
		})
		if perr != nil {
			return perr
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func parseRuleArray(r *jsonstream.Reader) ([]Rule, error) {
	var out []Rule
	err := r.NextScope(func(string) error {
		rule, err := parseRule(r)
		if err != nil {
			return err
		}
		out = append(out, rule)
		return nil
	})
	return out, err
}

// ruleAccum buffers a rule object's properties; like the shape parser, a
// rule's kind may only be knowable after seeing an explicit "type" or,
// absent that, a discriminator property (spec §4.6). When several
// discriminators are present, toRule picks by fixed priority
// ("endpoint", then "error", then "rules"), not by the order they appear.
type ruleAccum struct {
	explicitType string
	conditions   []Condition
	docs         string

	sawEndpoint bool
	endpointURL string
	endpointProps map[string]ArgValue
	endpointHeaders map[string][]string

	sawError bool
	errorMsg string

	sawRules bool
	subRules []Rule
}

func parseRule(r *jsonstream.Reader) (Rule, error) {
	acc := &ruleAccum{}
	err := r.NextScope(func(prop string) error {
		switch prop {
		case "type":
			s, err := r.NextString()
			if err != nil {
				return err
			}
			acc.explicitType = s
			return nil
		case "conditions":
			conds, err := parseConditions(r)
			if err != nil {
				return err
			}
			acc.conditions = conds
			return nil
		case "documentation":
			s, err := r.NextString()
			if err != nil {
				return err
			}
			acc.docs = s
			return nil
		case "endpoint":
			acc.sawEndpoint = true
			return parseEndpointResult(r, acc)
		case "error":
			acc.sawError = true
			s, err := parseTemplateOrString(r)
			if err != nil {
				return err
			}
			acc.errorMsg = s
			return nil
		case "rules":
			acc.sawRules = true
			list, err := parseRuleArray(r)
			if err != nil {
				return err
			}
			acc.subRules = list
			return nil
		default:
			return r.SkipValueOrScope()
		}
	})
	if err != nil {
		return Rule{}, err
	}
	return acc.toRule()
}

func (acc *ruleAccum) toRule() (Rule, error) {
	kind := acc.explicitType
	if kind == "" {
		switch {
		case acc.sawEndpoint:
			kind = "endpoint"
		case acc.sawError:
			kind = "error"
		case acc.sawRules:
			kind = "tree"
		default:
			return Rule{}, fmt.Errorf("rules: rule has no discriminating type/endpoint/error/rules property")
		}
	}
	base := Rule{Conditions: acc.conditions, Documentation: acc.docs}
	switch kind {
	case "endpoint":
		base.Kind = RuleEndpoint
		base.Endpoint = &EndpointResult{URL: acc.endpointURL, Properties: acc.endpointProps, Headers: acc.endpointHeaders}
	case "error":
		base.Kind = RuleError
		base.Message = acc.errorMsg
	case "tree":
		base.Kind = RuleTree
		base.Rules = acc.subRules
	default:
		return Rule{}, fmt.Errorf("rules: unknown rule type %q", kind)
	}
	return base, nil
}

// parseTemplateOrString reads either a bare template string, or (for the
// "error" property, which some rule-sets express as an object carrying a
// "message" field) an object with a "message" property.
func parseTemplateOrString(r *jsonstream.Reader) (string, error) {
	kind, err := r.Peek()
	if err != nil {
		return "", err
	}
	if kind == jsonstream.KindString {
		return r.NextString()
	}
	var msg string
	err = r.NextScope(func(prop string) error {
		if prop == "message" {
			s, err := r.NextString()
			if err != nil {
				return err
			}
			msg = s
			return nil
		}
		return r.SkipValueOrScope()
	})
	return msg, err
}

func parseEndpointResult(r *jsonstream.Reader, acc *ruleAccum) error {
	return r.NextScope(func(prop string) error {
		switch prop {
		case "url":
			s, err := r.NextString()
			if err != nil {
				return err
			}
			acc.endpointURL = s
			return nil
		case "properties":
			m := make(map[string]ArgValue)
			err := r.NextScope(func(name string) error {
				v, err := parseArgValue(r)
				if err != nil {
					return err
				}
				m[name] = v
				return nil
			})
			acc.endpointProps = m
			return err
		case "headers":
			m := make(map[string][]string)
			err := r.NextScope(func(name string) error {
				var vals []string
				ierr := r.NextScope(func(string) error {
					s, err := r.NextString()
					if err != nil {
						return err
					}
					vals = append(vals, s)
					return nil
				})
				m[name] = vals
				return ierr
			})
			acc.endpointHeaders = m
			return err
		default:
			return r.SkipValueOrScope()
		}
	})
}

func parseConditions(r *jsonstream.Reader) ([]Condition, error) {
	var out []Condition
	err := r.NextScope(func(string) error {
		var c Condition
		cerr := r.NextScope(func(prop string) error {
			switch prop {
			case "fn":
				s, err := r.NextString()
				if err != nil {
					return err
				}
				c.Function = s
				return nil
			case "argv":
				args, err := parseArgValueArray(r)
				if err != nil {
					return err
				}
				c.Args = args
				return nil
			case "assign":
				s, err := r.NextString()
				if err != nil {
					return err
				}
				c.Assign = s
				return nil
			default:
				return r.SkipValueOrScope()
			}
		})
		if cerr != nil {
			return cerr
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func parseArgValueArray(r *jsonstream.Reader) ([]ArgValue, error) {
	var out []ArgValue
	err := r.NextScope(func(string) error {
		v, err := parseArgValue(r)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// parseArgValue reads one ArgValue: a scalar, an array, a `{"ref": name}`
// reference, or a `{"fn": name, "argv": [...]}` function call (spec
// §3.5/§4.6).
func parseArgValue(r *jsonstream.Reader) (ArgValue, error) {
	kind, err := r.Peek()
	if err != nil {
		return ArgValue{}, err
	}
	switch kind {
	case jsonstream.KindBool:
		b, err := r.NextBoolean()
		return ArgValue{Kind: ArgBoolean, Bool: b}, err
	case jsonstream.KindNumber:
		n, err := r.NextInteger()
		return ArgValue{Kind: ArgInteger, Int: n}, err
	case jsonstream.KindString:
		s, err := r.NextString()
		return ArgValue{Kind: ArgString, Str: s}, err
	case jsonstream.KindArrayBegin:
		var arr []ArgValue
		err := r.NextScope(func(string) error {
			v, err := parseArgValue(r)
			if err != nil {
				return err
			}
			arr = append(arr, v)
			return nil
		})
		return ArgValue{Kind: ArgArray, Array: arr}, err
	case jsonstream.KindObjectBegin:
		return parseArgValueObject(r)
	default:
		tok, _ := r.Next()
		return ArgValue{}, &jsonstream.UnexpectedToken{Got: tok}
	}
}

func parseArgValueObject(r *jsonstream.Reader) (ArgValue, error) {
	var v ArgValue
	sawRef, sawFn := false, false
	err := r.NextScope(func(prop string) error {
		switch prop {
		case "ref":
			s, err := r.NextString()
			if err != nil {
				return err
			}
			v.Kind = ArgReference
			v.Ref = s
			sawRef = true
			return nil
		case "fn":
			s, err := r.NextString()
			if err != nil {
				return err
			}
			v.FuncName = s
			sawFn = true
			return nil
		case "argv":
			args, err := parseArgValueArray(r)
			if err != nil {
				return err
			}
			v.FuncArgs = args
			return nil
		default:
			return r.SkipValueOrScope()
		}
	})
	if sawFn {
		v.Kind = ArgFunction
	} else if !sawRef {
		return ArgValue{}, fmt.Errorf("rules: object-valued argument is neither a ref nor a fn call")
	}
	return v, err
}
