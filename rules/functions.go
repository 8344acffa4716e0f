package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boynton/smithygen/casing"
)

// ErrNonFinalIndexer is returned when a getAttr path mixes a bracketed
// index anywhere but its last segment (spec §9, "getAttr ambiguity" —
// the Open Question this package resolves by rejecting at lower time
// rather than guessing).
var ErrNonFinalIndexer = fmt.Errorf("rules: getAttr index must be the final path segment")

// ErrUnknownFunction is returned when a condition references a function
// name absent from both the standard library and any caller-supplied
// extension registry (spec §7's RulesFuncUnknown).
type ErrUnknownFunction struct{ Name string }

func (e *ErrUnknownFunction) Error() string { return "rules: unknown function: " + e.Name }

// lowerArgFn converts one already-parsed ArgValue into a Go expression
// string; the Generator supplies the concrete implementation (it alone
// knows the current parameter/config naming and any `assign`-bound local
// variables in scope).
type lowerArgFn func(ArgValue) (string, error)

// FuncDef is one entry of the function library: a name, and a lowering
// callback that turns the call's raw argv into a Go expression (spec
// §4.6, "Function lowering").
type FuncDef struct {
	Name  string
	Lower func(argv []ArgValue, lowerArg lowerArgFn) (string, error)
}

func isLiteralBool(v ArgValue, want bool) bool {
	return v.Kind == ArgBoolean && v.Bool == want
}

func lowerBooleanEquals(argv []ArgValue, lowerArg lowerArgFn) (string, error) {
	if len(argv) != 2 {
		return "", fmt.Errorf("booleanEquals: expected 2 args, got %d", len(argv))
	}
	a, b := argv[0], argv[1]
	// Peephole per spec §4.6: booleanEquals(x, true) == x; (x, false) == !x.
	if isLiteralBool(b, true) {
		return lowerArg(a)
	}
	if isLiteralBool(b, false) {
		expr, err := lowerArg(a)
		return "!(" + expr + ")", err
	}
	if isLiteralBool(a, true) {
		return lowerArg(b)
	}
	if isLiteralBool(a, false) {
		expr, err := lowerArg(b)
		return "!(" + expr + ")", err
	}
	ea, err := lowerArg(a)
	if err != nil {
		return "", err
	}
	eb, err := lowerArg(b)
	if err != nil {
		return "", err
	}
	return ea + " == " + eb, nil
}

func lowerIsSet(argv []ArgValue, lowerArg lowerArgFn) (string, error) {
	if len(argv) != 1 {
		return "", fmt.Errorf("isSet: expected 1 arg, got %d", len(argv))
	}
	e, err := lowerArg(argv[0])
	if err != nil {
		return "", err
	}
	return e + " != nil", nil
}

func lowerNot(argv []ArgValue, lowerArg lowerArgFn) (string, error) {
	if len(argv) != 1 {
		return "", fmt.Errorf("not: expected 1 arg, got %d", len(argv))
	}
	e, err := lowerArg(argv[0])
	if err != nil {
		return "", err
	}
	return "!(" + e + ")", nil
}

func lowerStringEquals(argv []ArgValue, lowerArg lowerArgFn) (string, error) {
	if len(argv) != 2 {
		return "", fmt.Errorf("stringEquals: expected 2 args, got %d", len(argv))
	}
	ea, err := lowerArg(argv[0])
	if err != nil {
		return "", err
	}
	eb, err := lowerArg(argv[1])
	if err != nil {
		return "", err
	}
	return ea + " == " + eb, nil
}

// GetAttrPath splits a getAttr path into its dotted field segments plus
// an optional trailing bracketed index (spec §4.6, §9). Non-final
// indexers are rejected.
func GetAttrPath(path string) (fields []string, index int, hasIndex bool, err error) {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		open := strings.IndexByte(seg, '[')
		if open < 0 {
			fields = append(fields, seg)
			continue
		}
		if i != len(segments)-1 {
			return nil, 0, false, ErrNonFinalIndexer
		}
		if !strings.HasSuffix(seg, "]") {
			return nil, 0, false, fmt.Errorf("rules: malformed index in getAttr path %q", path)
		}
		field := seg[:open]
		if field != "" {
			fields = append(fields, field)
		}
		idxStr := seg[open+1 : len(seg)-1]
		n, perr := strconv.Atoi(idxStr)
		if perr != nil {
			return nil, 0, false, fmt.Errorf("rules: non-integer index in getAttr path %q: %w", path, perr)
		}
		index = n
		hasIndex = true
	}
	return fields, index, hasIndex, nil
}

func lowerGetAttr(argv []ArgValue, lowerArg lowerArgFn) (string, error) {
	if len(argv) != 2 {
		return "", fmt.Errorf("getAttr: expected 2 args, got %d", len(argv))
	}
	base, err := lowerArg(argv[0])
	if err != nil {
		return "", err
	}
	if argv[1].Kind != ArgString {
		return "", fmt.Errorf("getAttr: path argument must be a string literal")
	}
	fields, index, hasIndex, err := GetAttrPath(argv[1].Str)
	if err != nil {
		return "", err
	}
	expr := base
	for _, f := range fields {
		expr += "." + casing.Pascal(f)
	}
	if hasIndex {
		expr = fmt.Sprintf("%s[%d]", expr, index)
	}
	return expr, nil
}

func lowerRuntimeCall(funcName string) func(argv []ArgValue, lowerArg lowerArgFn) (string, error) {
	return func(argv []ArgValue, lowerArg lowerArgFn) (string, error) {
		exprs := make([]string, 0, len(argv)+1)
		for _, a := range argv {
			e, err := lowerArg(a)
			if err != nil {
				return "", err
			}
			exprs = append(exprs, e)
		}
		exprs = append(exprs, "ec")
		return fmt.Sprintf("rulesfn.%s(%s)", funcName, strings.Join(exprs, ", ")), nil
	}
}

// StandardFunctions is the fixed function library named in spec §3.5/§4.6.
var StandardFunctions = map[string]FuncDef{
	"booleanEquals":    {Name: "booleanEquals", Lower: lowerBooleanEquals},
	"isSet":            {Name: "isSet", Lower: lowerIsSet},
	"not":              {Name: "not", Lower: lowerNot},
	"getAttr":          {Name: "getAttr", Lower: lowerGetAttr},
	"stringEquals":     {Name: "stringEquals", Lower: lowerStringEquals},
	"isValidHostLabel": {Name: "isValidHostLabel", Lower: lowerRuntimeCall("IsValidHostLabel")},
	"parseURL":         {Name: "parseURL", Lower: lowerRuntimeCall("ParseURL")},
	"uriEncode":        {Name: "uriEncode", Lower: lowerRuntimeCall("URIEncode")},
	"substring":        {Name: "substring", Lower: lowerRuntimeCall("SubString")},
}

// Registry extends the standard function library with user-supplied
// functions (spec §3.5: "plus an extensible registry").
type Registry struct {
	fns map[string]FuncDef
}

// NewRegistry returns a Registry seeded with StandardFunctions.
func NewRegistry() *Registry {
	fns := make(map[string]FuncDef, len(StandardFunctions))
	for k, v := range StandardFunctions {
		fns[k] = v
	}
	return &Registry{fns: fns}
}

// Register adds or overrides a function definition.
func (reg *Registry) Register(def FuncDef) { reg.fns[def.Name] = def }

// Lookup returns the function definition for name, or ErrUnknownFunction.
func (reg *Registry) Lookup(name string) (FuncDef, error) {
	def, ok := reg.fns[name]
	if !ok {
		return FuncDef{}, &ErrUnknownFunction{Name: name}
	}
	return def, nil
}
