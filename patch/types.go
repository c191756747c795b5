package patch

import (
	"context"

	"github.com/tbxark/formstepper/types"
)

const (
	OperationAdd     = "add"
	OperationRemove  = "remove"
	OperationReplace = "replace"
)

type Operation struct {
	Op    string `json:"op" jsonschema:"required,enum=add,enum=replace,enum=remove,description=RFC6902 operation"`
	Path  string `json:"path" jsonschema:"required,description=JSON pointer of the answer, e.g. /Age"`
	Value any    `json:"value,omitempty" jsonschema:"description=New answer, always a string"`
}

type UpdateFormArgs struct {
	Ops []Operation `json:"ops" jsonschema:"description=Patch operations on the answers object"`
}

type Generator interface {
	GeneratePatch(ctx context.Context, req *types.ToolRequest) (*UpdateFormArgs, error)
}

// Set builds a replace operation for label.
func Set(label, value string) Operation {
	return Operation{Op: OperationReplace, Path: types.PointerForLabel(label), Value: value}
}
