package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boynton/smithygen/casing"
	"github.com/boynton/smithygen/gen"
)

// ErrRequiredParamHasNoValue is a compile-time lowering error (spec §7,
// RulesRequiredParamHasNoValue): a required parameter with a built-in
// binding and no default has no value this generator can produce, since
// no built-in has a generator function here.
type ErrRequiredParamHasNoValue struct{ Param string }

func (e *ErrRequiredParamHasNoValue) Error() string {
	return fmt.Sprintf("rules: required parameter %q has only a built-in binding and no default", e.Param)
}

type generatorState struct {
	b        gen.Builder
	reg      *Registry
	locals   map[string]bool // parameter/assign-bound local variable names already declared
}

// GenerateResolver lowers a rule-set into a single emitted function (spec
// §4.6): `func <name>(config <configType>) (string, error)`. Every
// declared parameter is read from a same-named field on configType
// (PascalCase); a parameter with a declared default takes that default
// when the field holds its zero value, and a required parameter with a
// built-in binding but no default is rejected with
// ErrRequiredParamHasNoValue.
func GenerateResolver(b gen.Builder, name, configType string, rs *RuleSet, reg *Registry) error {
	if reg == nil {
		reg = NewRegistry()
	}
	g := &generatorState{b: b, reg: reg, locals: map[string]bool{}}

	b.Import("fmt")
	b.BeginFunction(name, "resolves an endpoint from "+configType+".",
		[2]string{"", ""}, [][2]string{{"config", configType}}, []string{"(string, error)"})

	for _, p := range rs.Parameters {
		if err := g.emitParamBinding(p); err != nil {
			b.EndFunction()
			return err
		}
	}

	depth := 0
	for _, rule := range rs.Rules {
		d, err := g.emitRule(rule)
		if err != nil {
			for i := 0; i < depth; i++ {
				b.EndIf()
			}
			b.EndFunction()
			return err
		}
		depth += d
		for i := 0; i < d; i++ {
			b.EndIf()
		}
	}
	b.Stmt(`return "", ErrNoRuleMatched`)
	b.EndFunction()
	return nil
}

func zeroLiteral(t ParamType) string {
	switch t {
	case ParamBoolean:
		return "false"
	case ParamStringArray:
		return "nil"
	default:
		return `""`
	}
}

func (g *generatorState) emitParamBinding(p Parameter) error {
	local := casing.Camel(p.Name)
	g.locals[p.Name] = true
	if p.Documentation != "" {
		g.b.Comment(p.Documentation)
	}
	if p.Deprecated != nil {
		msg := "deprecated"
		if p.Deprecated.Message != "" {
			msg += ": " + p.Deprecated.Message
		}
		if p.Deprecated.Since != "" {
			msg += " (since " + p.Deprecated.Since + ")"
		}
		g.b.Comment(msg)
	}
	g.b.Stmt("%s := config.%s", local, casing.Pascal(p.Name))
	if !p.HasDefault {
		if p.Required && p.HasBuiltIn {
			// No generator function for any built-in is registered here
			// (built-ins are a domain-specific concern left to callers,
			// spec §4.1's "out of scope" boundary) — a required parameter
			// with only a built-in source has no value this generator can
			// produce.
			return &ErrRequiredParamHasNoValue{Param: p.Name}
		}
		// Otherwise the config field is the only source of truth needed.
		return nil
	}
	defaultExpr, err := g.lowerArgValue(p.Default)
	if err != nil {
		return err
	}
	g.b.BeginIf("%s == %s", local, zeroLiteral(p.Type))
	g.b.Stmt("%s = %s", local, defaultExpr)
	g.b.EndIf()
	return nil
}

// emitRule renders one rule (recursively, for RuleTree) as a chain of
// nested ifs and returns how many EndIf calls the caller must issue to
// close what this call opened.
func (g *generatorState) emitRule(rule Rule) (int, error) {
	opened := 0
	for _, cond := range rule.Conditions {
		expr, err := g.lowerFunctionCall(cond.Function, cond.Args)
		if err != nil {
			return opened, err
		}
		if cond.Assign != "" {
			local := casing.Camel(cond.Assign)
			g.locals[cond.Assign] = true
			g.b.Stmt("%s := %s", local, expr)
			g.b.BeginIf("%s != nil", local)
		} else {
			g.b.BeginIf("%s", expr)
		}
		opened++
	}

	switch rule.Kind {
	case RuleEndpoint:
		if err := g.emitEndpointBody(rule.Endpoint); err != nil {
			return opened, err
		}
	case RuleError:
		if err := g.emitErrorBody(rule.Message); err != nil {
			return opened, err
		}
	case RuleTree:
		for _, sub := range rule.Rules {
			d, err := g.emitRule(sub)
			if err != nil {
				return opened, err
			}
			for i := 0; i < d; i++ {
				g.b.EndIf()
			}
		}
	}
	return opened, nil
}

func (g *generatorState) emitEndpointBody(ep *EndpointResult) error {
	format, args, err := renderTemplate(ep.URL, g.lowerArgValue)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		g.b.Return(fmt.Sprintf("%q", format), "nil")
		return nil
	}
	callArgs := append([]string{fmt.Sprintf("%q", format)}, args...)
	g.b.Stmt("endpoint := fmt.Sprintf(%s)", strings.Join(callArgs, ", "))
	g.b.Return("endpoint", "nil")
	return nil
}

func (g *generatorState) emitErrorBody(message string) error {
	format, args, err := renderTemplate(message, g.lowerArgValue)
	if err != nil {
		return err
	}
	allArgs := append([]string{fmt.Sprintf("%q", format)}, args...)
	g.b.Stmt("msg := fmt.Sprintf(%s)", strings.Join(allArgs, ", "))
	g.b.Return(`""`, "&ErrReachedErrorRule{Message: msg}")
	return nil
}

// lowerFunctionCall resolves fnName against the function registry and
// lowers its arguments.
func (g *generatorState) lowerFunctionCall(fnName string, argv []ArgValue) (string, error) {
	def, err := g.reg.Lookup(fnName)
	if err != nil {
		return "", err
	}
	return def.Lower(argv, g.lowerArgValue)
}

// lowerArgValue lowers one ArgValue into a Go expression.
func (g *generatorState) lowerArgValue(v ArgValue) (string, error) {
	switch v.Kind {
	case ArgBoolean:
		return strconv.FormatBool(v.Bool), nil
	case ArgInteger:
		return strconv.FormatInt(v.Int, 10), nil
	case ArgString:
		return fmt.Sprintf("%q", v.Str), nil
	case ArgArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			s, err := g.lowerArgValue(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[]interface{}{" + strings.Join(parts, ", ") + "}", nil
	case ArgReference:
		if !g.locals[v.Ref] {
			// Referenced before any binding/assign — still emit the
			// plausible local name; an undeclared identifier here means
			// the rule-set referenced a name with no parameter or assign,
			// which a real compiler would catch downstream.
			return casing.Camel(v.Ref), nil
		}
		return casing.Camel(v.Ref), nil
	case ArgFunction:
		return g.lowerFunctionCall(v.FuncName, v.FuncArgs)
	default:
		return "", fmt.Errorf("rules: unhandled ArgValue kind %d", v.Kind)
	}
}

// renderTemplate lowers a template string (spec §4.6): `{Name}` is a bare
// reference, `{Name#path}` is getAttr(reference, path). A `{` with no
// matching `}` is literal.
func renderTemplate(tmpl string, lowerArg lowerArgFn) (string, []string, error) {
	var format strings.Builder
	var args []string
	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c != '{' {
			format.WriteByte(c)
			i++
			continue
		}
		rest := tmpl[i+1:]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			format.WriteByte(c)
			i++
			continue
		}
		inner := rest[:end]
		i += end + 2
		name, path := inner, ""
		if idx := strings.IndexByte(inner, '#'); idx >= 0 {
			name, path = inner[:idx], inner[idx+1:]
		}
		var expr string
		var err error
		if path == "" {
			expr, err = lowerArg(ArgValue{Kind: ArgReference, Ref: name})
		} else {
			expr, err = lowerGetAttr([]ArgValue{
				{Kind: ArgReference, Ref: name},
				{Kind: ArgString, Str: path},
			}, lowerArg)
		}
		if err != nil {
			return "", nil, err
		}
		format.WriteString("%s")
		args = append(args, expr)
	}
	return format.String(), args, nil
}

// GenerateTests emits one test function per case (spec §4.6,
// "Test generation"): each defines a config literal and asserts either
// ErrReachedErrorRule or the expected endpoint string.
func GenerateTests(b gen.Builder, funcName, configType string, cases []TestCase) {
	for i, tc := range cases {
		testName := fmt.Sprintf("Test%s_%d", casing.Pascal(funcName), i)
		b.BeginFunction(testName, tc.Documentation, [2]string{"", ""},
			[][2]string{{"t", "*testing.T"}}, nil)
		b.Stmt("config := %s{", configType)
		for k, v := range tc.Params {
			b.Stmt("\t%s: %s,", casing.Pascal(k), literalFor(v))
		}
		b.Stmt("}")
		b.Stmt("got, err := %s(config)", funcName)
		if tc.ExpectError {
			b.BeginIf("err == nil")
			b.Stmt(`t.Fatal("expected ErrReachedErrorRule")`)
			b.EndIf()
		} else {
			b.BeginIf("err != nil")
			b.Stmt("t.Fatal(err)")
			b.EndIf()
			b.BeginIf("got != %q", tc.ExpectedEndpoint)
			b.Stmt("t.Errorf(\"got %%q, want %%q\", got, %q)", tc.ExpectedEndpoint)
			b.EndIf()
		}
		b.EndFunction()
	}
}

// TestCase is one entry of a rule-set's test-case array (spec §4.6).
type TestCase struct {
	Documentation    string
	Params           map[string]ArgValue
	ExpectError      bool
	ExpectedEndpoint string
}

func literalFor(v ArgValue) string {
	switch v.Kind {
	case ArgBoolean:
		return strconv.FormatBool(v.Bool)
	case ArgInteger:
		return strconv.FormatInt(v.Int, 10)
	case ArgString:
		return fmt.Sprintf("%q", v.Str)
	default:
		return fmt.Sprintf("%v", v)
	}
}
