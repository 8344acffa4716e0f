package emitter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/boynton/smithygen/emitter"
	"github.com/boynton/smithygen/gen"
	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/internal/textbuilder"
	"github.com/boynton/smithygen/jsonstream"
	"github.com/boynton/smithygen/model"
	"github.com/boynton/smithygen/parser"
	"github.com/boynton/smithygen/traits"
)

func newRegistry() *traits.Registry {
	reg := traits.NewRegistry()
	traits.RegisterBuiltins(reg)
	return reg
}

func parseStore(t *testing.T, doc string) *model.Store {
	t.Helper()
	r := jsonstream.New(strings.NewReader(doc))
	issues := &parser.IssueBag{}
	store, err := parser.ParseJSON(newRegistry(), parser.DefaultPolicy(), issues, r)
	require.NoError(t, err)
	return store
}

func defaultHooks() emitter.Hooks {
	return emitter.Hooks{
		WriteErrorShape:    emitter.DefaultWriteErrorShape,
		WriteOperationBody: emitter.DefaultWriteOperationBody,
	}
}

func writeScript(t *testing.T, store *model.Store, rootID id.ShapeId, hooks emitter.Hooks) (string, *emitter.IssueBag) {
	t.Helper()
	b := textbuilder.New()
	issues := &emitter.IssueBag{}
	err := emitter.WriteScript(b, store, hooks, emitter.DefaultPolicy(), issues, rootID)
	require.NoError(t, err)
	return b.String(), issues
}

func TestEmitStructureWithRequiredAndDefaultMembers(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.weather#Mixin": {
				"type": "structure",
				"traits": { "smithy.api#mixin": {} },
				"members": {
					"mixed": { "target": "smithy.api#Boolean" }
				}
			},
			"example.weather#Struct": {
				"type": "structure",
				"mixins": [ { "target": "example.weather#Mixin" } ],
				"members": {
					"fooBar": { "target": "smithy.api#Integer", "traits": { "smithy.api#required": {} } },
					"bazQux": { "target": "smithy.api#Integer", "traits": { "smithy.api#default": 8 } }
				}
			}
		}
	}`
	store := parseStore(t, doc)
	rootID := id.Of("example.weather#Struct")
	out, issues := writeScript(t, store, rootID, defaultHooks())
	require.Equal(t, 0, issues.Len())
	require.Contains(t, out, "type Struct struct")
	require.Contains(t, out, "Mixed *bool")
	require.Contains(t, out, "FooBar int32")
	require.Contains(t, out, "BazQux int32")
	require.Contains(t, out, "default: 8")
}

func TestEmitStructureWithIntEnumDefault(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.weather#Level": {
				"type": "intEnum",
				"members": {
					"LOW": { "target": "smithy.api#Unit", "traits": { "smithy.api#enumValue": 8 } },
					"HIGH": { "target": "smithy.api#Unit", "traits": { "smithy.api#enumValue": 9 } }
				}
			},
			"example.weather#Struct": {
				"type": "structure",
				"members": {
					"bazQux": {
						"target": "example.weather#Level",
						"traits": { "smithy.api#default": 8 }
					}
				}
			}
		}
	}`
	store := parseStore(t, doc)
	rootID := id.Of("example.weather#Struct")
	out, issues := writeScript(t, store, rootID, defaultHooks())
	require.Equal(t, 0, issues.Len())
	require.Contains(t, out, "BazQux Level")
	require.Contains(t, out, "default: LevelFromInt(8)")
}

func TestEmitStrEnumProducesParseAndUnknown(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.simple#Enum": {
				"type": "enum",
				"members": {
					"FOO": { "target": "smithy.api#Unit", "traits": { "smithy.api#enumValue": "foo" } }
				}
			}
		}
	}`
	store := parseStore(t, doc)
	rootID := id.Of("example.simple#Enum")
	out, issues := writeScript(t, store, rootID, defaultHooks())
	require.Equal(t, 0, issues.Len())
	require.Contains(t, out, "type Enum string")
	require.Contains(t, out, `EnumUnknown = ""`)
	require.Contains(t, out, `EnumFoo = "foo"`)
	require.Contains(t, out, "func ParseEnum(s string) Enum")
}

func TestEmitIntEnum(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.simple#IntEnum": {
				"type": "intEnum",
				"members": {
					"FOO": { "target": "smithy.api#Unit", "traits": { "smithy.api#enumValue": 8 } },
					"BAZ": { "target": "smithy.api#Unit", "traits": { "smithy.api#enumValue": 9 } }
				}
			}
		}
	}`
	store := parseStore(t, doc)
	rootID := id.Of("example.simple#IntEnum")
	out, _ := writeScript(t, store, rootID, defaultHooks())
	require.Contains(t, out, "type IntEnum int32")
	require.Contains(t, out, "IntEnumFoo = 8")
	require.Contains(t, out, "IntEnumBaz = 9")
	require.Contains(t, out, "func IntEnumFromInt(n int32) IntEnum")
}

func TestEmitSparseList(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.simple#Names": {
				"type": "list",
				"traits": { "smithy.api#sparse": {} },
				"member": { "target": "smithy.api#String" }
			}
		}
	}`
	store := parseStore(t, doc)
	rootID := id.Of("example.simple#Names")
	out, _ := writeScript(t, store, rootID, defaultHooks())
	require.Contains(t, out, "type Names = []*string")
}

func TestEmitResourceWithLifecycleOperation(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.serve#OperationInput": { "type": "structure" },
			"example.serve#OperationOutput": { "type": "structure" },
			"example.serve#Operation": {
				"type": "operation",
				"input": { "target": "example.serve#OperationInput" },
				"output": { "target": "example.serve#OperationOutput" }
			},
			"example.serve#Resource": {
				"type": "resource",
				"identifiers": { "forecastId": { "target": "smithy.api#String" } },
				"read": { "target": "example.serve#Operation" }
			}
		}
	}`
	store := parseStore(t, doc)
	rootID := id.Of("example.serve#Resource")
	out, issues := writeScript(t, store, rootID, defaultHooks())
	require.Equal(t, 0, issues.Len())
	require.Contains(t, out, "type Resource struct")
	require.Contains(t, out, "ForecastId string")
	require.Contains(t, out, "type OperationInput struct")
	require.Contains(t, out, "type OperationOutput struct")
	require.Contains(t, out, "func (c *Resource) operation(input OperationInput) (OperationOutput, error)")
}

func TestEmitServiceWithOperationErrors(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.weather#NotFoundError": {
				"type": "structure",
				"traits": { "smithy.api#error": "client" }
			},
			"example.weather#GetForecastInput": { "type": "structure" },
			"example.weather#GetForecastOutput": { "type": "structure" },
			"example.weather#GetForecast": {
				"type": "operation",
				"input": { "target": "example.weather#GetForecastInput" },
				"output": { "target": "example.weather#GetForecastOutput" },
				"errors": [ { "target": "example.weather#NotFoundError" } ]
			},
			"example.weather#Weather": {
				"type": "service",
				"version": "2020-01-01",
				"operations": [ { "target": "example.weather#GetForecast" } ]
			}
		}
	}`
	store := parseStore(t, doc)
	out, issues := writeScript(t, store, store.ServiceID, defaultHooks())
	require.Equal(t, 0, issues.Len())
	require.Contains(t, out, "type Weather struct")
	require.Contains(t, out, "type GetForecastErrors struct")
	require.Contains(t, out, "func (c *Weather) getForecast(input GetForecastInput) (GetForecastOutput, error)")
	require.Contains(t, out, "NotFoundErrorSource")
	require.Contains(t, out, "serviceErrorNames")
}

func TestEmitRootPrimitiveIsRejectedUnderStrictPolicy(t *testing.T) {
	store := model.New()
	store.PutShape(id.Of("string"), model.Leaf(model.KindString))
	b := textbuilder.New()
	issues := &emitter.IssueBag{}
	err := emitter.WriteScript(b, store, defaultHooks(), emitter.StrictPolicy(), issues, id.Of("string"))
	require.ErrorIs(t, err, emitter.ErrPolicyAbort)
}

func TestEmitRootPrimitiveIsSkippedUnderDefaultPolicy(t *testing.T) {
	store := model.New()
	store.PutShape(id.Of("string"), model.Leaf(model.KindString))
	b := textbuilder.New()
	issues := &emitter.IssueBag{}
	err := emitter.WriteScript(b, store, defaultHooks(), emitter.DefaultPolicy(), issues, id.Of("string"))
	require.NoError(t, err)
	require.Equal(t, 1, issues.Len())
	require.Equal(t, emitter.IssueInvalidRoot, issues.All()[0].Kind)
}

func TestRenderReadmeListsOperationsWithDocs(t *testing.T) {
	doc := `{
		"smithy": "2.0",
		"shapes": {
			"example.weather#GetForecastInput": { "type": "structure" },
			"example.weather#GetForecastOutput": { "type": "structure" },
			"example.weather#GetForecast": {
				"type": "operation",
				"input": { "target": "example.weather#GetForecastInput" },
				"output": { "target": "example.weather#GetForecastOutput" },
				"traits": { "smithy.api#documentation": "Fetches the forecast." }
			},
			"example.weather#Weather": {
				"type": "service",
				"version": "2020-01-01",
				"operations": [ { "target": "example.weather#GetForecast" } ],
				"traits": { "smithy.api#documentation": "Weather service." }
			}
		}
	}`
	store := parseStore(t, doc)
	out, err := emitter.RenderReadme(store, store.ServiceID, emitter.ReadmeContext{Title: "Weather"})
	require.NoError(t, err)
	require.Contains(t, out, "# Weather")
	require.Contains(t, out, "Weather service.")
	require.Contains(t, out, "## Operations")
	require.Contains(t, out, "`GetForecast`")
	require.Contains(t, out, "Fetches the forecast.")
}

var _ gen.Builder = (*textbuilder.Builder)(nil)
