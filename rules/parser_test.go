package rules

import (
	"strings"
	"testing"

	"github.com/boynton/smithygen/jsonstream"
)

func parseDoc(t *testing.T, doc string) *RuleSet {
	t.Helper()
	r := jsonstream.New(strings.NewReader(doc))
	rs, err := ParseRuleSet(r)
	if err != nil {
		t.Fatalf("ParseRuleSet: %v", err)
	}
	return rs
}

func TestParseParametersAndSimpleRules(t *testing.T) {
	doc := `{
		"version": "1.0",
		"parameters": {
			"Foo": { "type": "string", "documentation": "a param" },
			"Bar": { "type": "boolean", "required": true },
			"Baz": { "type": "boolean", "required": true, "default": true }
		},
		"rules": [
			{ "conditions": [ { "fn": "not", "argv": [ { "ref": "Foo" } ] } ], "error": "bar" },
			{ "error": "baz" }
		]
	}`
	rs := parseDoc(t, doc)
	if rs.Version != "1.0" {
		t.Errorf("unexpected version: %q", rs.Version)
	}
	if len(rs.Parameters) != 3 {
		t.Fatalf("expected 3 parameters, got %d", len(rs.Parameters))
	}
	baz := rs.Parameters[2]
	if !baz.HasDefault || baz.Default.Kind != ArgBoolean || !baz.Default.Bool {
		t.Errorf("unexpected Baz default: %+v", baz)
	}
	if len(rs.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs.Rules))
	}
	r0 := rs.Rules[0]
	if r0.Kind != RuleError || len(r0.Conditions) != 1 {
		t.Fatalf("unexpected first rule: %+v", r0)
	}
	r1 := rs.Rules[1]
	if r1.Kind != RuleError || len(r1.Conditions) != 0 {
		t.Fatalf("unexpected second rule: %+v", r1)
	}
}

func TestParseEndpointRuleWithTemplate(t *testing.T) {
	doc := `{
		"version": "1.0",
		"parameters": { "Region": { "type": "string", "required": true } },
		"rules": [
			{ "type": "endpoint", "conditions": [], "endpoint": { "url": "https://{Region}.example.com" } }
		]
	}`
	rs := parseDoc(t, doc)
	r := rs.Rules[0]
	if r.Kind != RuleEndpoint || r.Endpoint == nil || r.Endpoint.URL != "https://{Region}.example.com" {
		t.Fatalf("unexpected endpoint rule: %+v", r)
	}
}

func TestParseTreeRule(t *testing.T) {
	doc := `{
		"version": "1.0",
		"parameters": {},
		"rules": [
			{
				"type": "tree",
				"conditions": [],
				"rules": [
					{ "error": "inner" }
				]
			}
		]
	}`
	rs := parseDoc(t, doc)
	r := rs.Rules[0]
	if r.Kind != RuleTree || len(r.Rules) != 1 {
		t.Fatalf("unexpected tree rule: %+v", r)
	}
}

func TestParseFunctionArgValue(t *testing.T) {
	doc := `{
		"version": "1.0",
		"parameters": {},
		"rules": [
			{
				"conditions": [
					{ "fn": "booleanEquals", "argv": [ { "fn": "isSet", "argv": [ { "ref": "Foo" } ] }, true ], "assign": "x" }
				],
				"error": "e"
			}
		]
	}`
	rs := parseDoc(t, doc)
	cond := rs.Rules[0].Conditions[0]
	if cond.Assign != "x" {
		t.Errorf("unexpected assign: %q", cond.Assign)
	}
	if len(cond.Args) != 2 || cond.Args[0].Kind != ArgFunction || cond.Args[0].FuncName != "isSet" {
		t.Fatalf("unexpected nested function arg: %+v", cond.Args)
	}
}

func TestParseEmptyRuleSetErrors(t *testing.T) {
	doc := `{ "version": "1.0", "parameters": {}, "rules": [] }`
	r := jsonstream.New(strings.NewReader(doc))
	_, err := ParseRuleSet(r)
	if err != ErrEmptyRuleSet {
		t.Fatalf("expected ErrEmptyRuleSet, got %v", err)
	}
}
