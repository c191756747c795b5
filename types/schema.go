package types

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AnswerSchema describes the answer map of pages as a JSON schema object.
// Choice fields carry their options as an enum and boolean controls are
// restricted to "true"/"false".
func AnswerSchema(title string, pages []Page) (string, error) {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string
	for _, p := range pages {
		for _, f := range p.Fields {
			if _, seen := props.Get(f.Label); seen {
				continue
			}
			props.Set(f.Label, fieldSchema(p, f))
			if f.Required {
				required = append(required, f.Label)
			}
		}
	}
	schema := &jsonschema.Schema{
		Type:        "object",
		Title:       title,
		Description: "Answers keyed by field label. Every value is a string.",
		Properties:  props,
		Required:    required,
	}
	data, err := sonic.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal answer schema: %w", err)
	}
	return string(data), nil
}

func fieldSchema(p Page, f Field) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        "string",
		Title:       f.Label,
		Description: p.Title,
	}
	if f.DefaultValue != "" {
		s.Default = f.DefaultValue
	}
	switch {
	case f.Kind.IsBoolean():
		s.Enum = []any{"true", "false"}
	case f.Kind.IsChoice() && len(f.Options) > 0:
		s.Enum = make([]any, 0, len(f.Options))
		for _, o := range f.Options {
			s.Enum = append(s.Enum, o)
		}
	}
	if f.Placeholder != "" {
		s.Examples = []any{f.Placeholder}
	}
	return s
}
