package patch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tbxark/formstepper/types"
)

// AllowedPaths returns the pointers of every field on pages.
func AllowedPaths(pages ...types.Page) map[string]bool {
	allowed := make(map[string]bool)
	for _, p := range pages {
		for _, f := range p.Fields {
			allowed[types.PointerForLabel(f.Label)] = true
		}
	}
	return allowed
}

// ValidatePatchOperations rejects operations outside allowedPaths. An empty
// set allows everything.
func ValidatePatchOperations(ops []Operation, allowedPaths map[string]bool) error {
	for i, op := range ops {
		switch op.Op {
		case OperationAdd, OperationReplace, OperationRemove:
		default:
			return fmt.Errorf("operation %d: unsupported op %q", i, op.Op)
		}
		if len(allowedPaths) > 0 && !allowedPaths[op.Path] {
			return fmt.Errorf("operation %d: path %q is not in the allowed paths set", i, op.Path)
		}
	}
	return nil
}

// FieldError reports an answer that does not fit its field.
type FieldError struct {
	Label   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// FieldErrors lists the fields err complains about, in the form shown to the
// user as validation errors.
func FieldErrors(err error) []types.FieldInfo {
	var fe *FieldError
	if !errors.As(err, &fe) {
		return nil
	}
	return []types.FieldInfo{{
		JSONPointer: types.PointerForLabel(fe.Label),
		DisplayName: fe.Label,
		Description: fe.Message,
	}}
}

// CheckValues rejects add and replace values that are not an option of their
// choice field or not a boolean for a checkbox or switch.
func CheckValues(page types.Page, ops []Operation) error {
	for _, op := range ops {
		if op.Op == OperationRemove {
			continue
		}
		label, ok := types.LabelForPointer(op.Path)
		if !ok {
			continue
		}
		f, ok := page.Field(label)
		if !ok {
			continue
		}
		raw := fmt.Sprint(op.Value)
		switch {
		case f.Kind.IsBoolean():
			if raw != "true" && raw != "false" {
				return &FieldError{Label: f.Label, Message: fmt.Sprintf("%s expects yes or no, got %q", f.Label, raw)}
			}
		case f.Kind.IsChoice() && len(f.Options) > 0:
			if !slices.Contains(f.Options, raw) {
				return &FieldError{Label: f.Label, Message: fmt.Sprintf("%q is not an option of %s", raw, f.Label)}
			}
		}
	}
	return nil
}
