package patch

import (
	"sort"

	"github.com/tbxark/formstepper/types"
)

// Diff returns the operations turning from into to, ordered by label.
func Diff(from, to types.Answers) []Operation {
	labels := make([]string, 0, len(to))
	for label := range to {
		labels = append(labels, label)
	}
	for label := range from {
		if _, ok := to[label]; !ok {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	ops := make([]Operation, 0)
	for _, label := range labels {
		path := types.PointerForLabel(label)
		newValue, inTo := to[label]
		oldValue, inFrom := from[label]
		switch {
		case !inTo:
			ops = append(ops, Operation{Op: OperationRemove, Path: path})
		case !inFrom:
			ops = append(ops, Operation{Op: OperationAdd, Path: path, Value: newValue.String()})
		case oldValue.String() != newValue.String():
			ops = append(ops, Operation{Op: OperationReplace, Path: path, Value: newValue.String()})
		}
	}
	return ops
}
