package patch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tbxark/formstepper/types"
)

var ErrNoAnswer = errors.New("no answer recognized for the current page")

// LocalPatchGenerator extracts answers without a model. It understands
// "Label: value" lines, option numbers, yes/no for checkboxes, a comma list
// of checkbox labels, and a bare value for the first field still missing.
type LocalPatchGenerator struct{}

func NewLocalPatchGenerator() *LocalPatchGenerator {
	return &LocalPatchGenerator{}
}

func (g *LocalPatchGenerator) GeneratePatch(ctx context.Context, req *types.ToolRequest) (*UpdateFormArgs, error) {
	input := strings.TrimSpace(req.MessagePair.Answer)
	if input == "" {
		return nil, ErrNoAnswer
	}
	page := req.Page

	var ops []Operation
	for _, line := range splitLines(input) {
		label, raw, ok := splitAssignment(line)
		if !ok {
			continue
		}
		f, ok := lookupField(page, label)
		if !ok {
			continue
		}
		value, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		ops = append(ops, Set(f.Label, value))
	}
	if len(ops) > 0 {
		return &UpdateFormArgs{Ops: ops}, nil
	}

	if ops = checkboxList(page, input); len(ops) > 0 {
		return &UpdateFormArgs{Ops: ops}, nil
	}

	f, ok := targetField(req)
	if !ok {
		return nil, ErrNoAnswer
	}
	value, err := coerce(f, input)
	if err != nil {
		return nil, err
	}
	return &UpdateFormArgs{Ops: []Operation{Set(f.Label, value)}}, nil
}

func splitLines(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == ';'
	})
}

func splitAssignment(line string) (label, value string, ok bool) {
	i := strings.IndexAny(line, ":=")
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func lookupField(page types.Page, label string) (types.Field, bool) {
	for _, f := range page.Fields {
		if strings.EqualFold(f.Label, label) {
			return f, true
		}
	}
	return types.Field{}, false
}

// checkboxList ticks every checkbox named in a comma separated list. All
// items must name a boolean field on the page.
func checkboxList(page types.Page, input string) []Operation {
	var ops []Operation
	for _, item := range strings.Split(input, ",") {
		f, ok := lookupField(page, strings.TrimSpace(item))
		if !ok || !f.Kind.IsBoolean() {
			return nil
		}
		ops = append(ops, Set(f.Label, "true"))
	}
	return ops
}

// targetField picks the field a bare answer belongs to: the only field on
// the page, otherwise the first required field still missing.
func targetField(req *types.ToolRequest) (types.Field, bool) {
	if len(req.Page.Fields) == 1 {
		return req.Page.Fields[0], true
	}
	for _, missing := range req.MissingFields {
		if f, ok := req.Page.Field(missing.DisplayName); ok {
			return f, true
		}
	}
	return types.Field{}, false
}

func coerce(f types.Field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case f.Kind.IsBoolean():
		switch strings.ToLower(raw) {
		case "yes", "y", "true", "x", "on", "1":
			return "true", nil
		case "no", "n", "false", "off", "0":
			return "false", nil
		}
		return "", &FieldError{Label: f.Label, Message: fmt.Sprintf("%s expects yes or no, got %q", f.Label, raw)}
	case f.Kind.IsChoice() && len(f.Options) > 0:
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(f.Options) {
			return f.Options[n-1], nil
		}
		var match string
		for _, opt := range f.Options {
			if strings.EqualFold(opt, raw) {
				return opt, nil
			}
			if strings.Contains(strings.ToLower(opt), strings.ToLower(raw)) {
				if match != "" {
					return "", &FieldError{Label: f.Label, Message: fmt.Sprintf("%q matches more than one option of %s", raw, f.Label)}
				}
				match = opt
			}
		}
		if match == "" {
			return "", &FieldError{Label: f.Label, Message: fmt.Sprintf("%q is not an option of %s", raw, f.Label)}
		}
		return match, nil
	default:
		return raw, nil
	}
}

// FailbackPatchGenerator asks each generator in turn and returns the first
// successful result.
type FailbackPatchGenerator struct {
	generators []Generator
}

func NewFailbackPatchGenerator(generators ...Generator) *FailbackPatchGenerator {
	return &FailbackPatchGenerator{generators: generators}
}

func (g *FailbackPatchGenerator) GeneratePatch(ctx context.Context, req *types.ToolRequest) (*UpdateFormArgs, error) {
	var lastErr error
	for _, generator := range g.generators {
		args, err := generator.GeneratePatch(ctx, req)
		if err == nil {
			return args, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all patch generators failed: %w", lastErr)
}
