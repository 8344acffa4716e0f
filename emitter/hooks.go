package emitter

import (
	"github.com/boynton/smithygen/gen"
	"github.com/boynton/smithygen/id"
	"github.com/boynton/smithygen/model"
)

// Hooks are the emitter's extension points (spec §6.5). All but
// WriteErrorShape and WriteOperationBody are optional; a nil optional
// hook is simply skipped.
type Hooks struct {
	WriteScriptHead    func(b gen.Builder, store *model.Store)
	WriteServiceHead   func(b gen.Builder, store *model.Store, serviceID id.ShapeId, name string)
	WriteResourceHead  func(b gen.Builder, store *model.Store, resourceID id.ShapeId, name string)
	WriteErrorShape    func(b gen.Builder, store *model.Store, shapeID id.ShapeId, name string) error
	WriteOperationBody func(b gen.Builder, store *model.Store, opID id.ShapeId) error

	OperationReturnType func(store *model.Store, opID id.ShapeId) string
	UniqueListType      func(elementType string) string
}
