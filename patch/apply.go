package patch

import (
	"encoding/json"
	"fmt"
	"strconv"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tbxark/formstepper/types"
)

// ApplyRFC6902 applies ops to a copy of answers. Values that come back as
// JSON numbers, booleans or null are converted to their string form; the
// caller re-decodes variants from field kinds.
func ApplyRFC6902(current types.Answers, ops []Operation) (types.Answers, error) {
	if len(ops) == 0 {
		return current.Clone(), nil
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal current answers: %w", err)
	}

	ops = FixOperation(current, ops)

	patchJSON, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch operations: %w", err)
	}

	p, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode patch: %w", err)
	}

	modifiedJSON, err := p.Apply(currentJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to apply patch: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(modifiedJSON, &raw); err != nil {
		return nil, fmt.Errorf("patch produced a non-object answer document: %w", err)
	}

	result := make(types.Answers, len(raw))
	for label, v := range raw {
		s, err := stringify(v)
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", label, err)
		}
		result[label] = types.Text(s)
	}
	return result, nil
}

func stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// FixOperation turns replace into add for labels without an answer and drops
// removes of such labels, so generated patches do not fail on absent answers.
func FixOperation(current types.Answers, ops []Operation) []Operation {
	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		_, exists := answerAt(current, op.Path)
		switch {
		case op.Op == OperationReplace && !exists:
			op.Op = OperationAdd
		case op.Op == OperationRemove && !exists:
			continue
		}
		fixed = append(fixed, op)
	}
	return fixed
}

func answerAt(answers types.Answers, pointer string) (types.Value, bool) {
	label, ok := types.LabelForPointer(pointer)
	if !ok {
		return types.Value{}, false
	}
	v, ok := answers[label]
	return v, ok
}
