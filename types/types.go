package types

import "strings"

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindInput    FieldKind = "input"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindRadio    FieldKind = "radio"
	KindSwitch   FieldKind = "switch"
)

// IsBoolean reports whether the control toggles between "true" and "false".
func (k FieldKind) IsBoolean() bool {
	return k == KindCheckbox || k == KindSwitch
}

// IsChoice reports whether the control picks one of Field.Options.
func (k FieldKind) IsChoice() bool {
	return k == KindSelect || k == KindRadio
}

func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindInput, KindSelect, KindCheckbox, KindRadio, KindSwitch:
		return true
	default:
		return false
	}
}

// Field describes one form control. Label is both the display name and the
// key of the field in Answers.
type Field struct {
	Label        string    `json:"label"`
	Kind         FieldKind `json:"kind"`
	DefaultValue string    `json:"default_value"`
	Options      []string  `json:"options,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty"`
	Required     bool      `json:"required,omitempty"`
}

func (f Field) Default() Value {
	return DecodeValue(f.Kind, f.DefaultValue)
}

// Filled reports whether v satisfies the field's required-ness.
func (f Field) Filled(v Value) bool {
	if !f.Required {
		return true
	}
	return !v.IsBlank()
}

type Page struct {
	Title  string  `json:"title"`
	Copy   string  `json:"copy"`
	Fields []Field `json:"fields"`
}

func (p Page) Field(label string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

func (p Page) Labels() []string {
	labels := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		labels = append(labels, f.Label)
	}
	return labels
}

// FindField looks a label up across pages, first match wins.
func FindField(pages []Page, label string) (Field, bool) {
	for _, p := range pages {
		if f, ok := p.Field(label); ok {
			return f, true
		}
	}
	return Field{}, false
}

// Status is the lifecycle of one questionnaire session.
type Status string

const (
	StatusWelcome   Status = "welcome"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Finished reports whether no further turns are accepted.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// PointerForLabel returns the RFC6901 pointer addressing label in Answers.
func PointerForLabel(label string) string {
	r := strings.NewReplacer("~", "~0", "/", "~1")
	return "/" + r.Replace(label)
}

// LabelForPointer is the inverse of PointerForLabel.
func LabelForPointer(pointer string) (string, bool) {
	if !strings.HasPrefix(pointer, "/") || strings.Count(pointer, "/") != 1 {
		return "", false
	}
	r := strings.NewReplacer("~1", "/", "~0", "~")
	return r.Replace(pointer[1:]), true
}

type MessagePair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ToolRequest is the view of one stepper turn handed to command parsers,
// patch generators and dialogue generators.
type ToolRequest struct {
	Status      Status      `json:"status"`
	Phase       string      `json:"phase,omitempty"`
	PageIndex   int         `json:"page_index"`
	PageCount   int         `json:"page_count"`
	Page        Page        `json:"page"`
	Answers     Answers     `json:"answers"`
	Valid       bool        `json:"valid"`
	StateSchema string      `json:"state_schema,omitempty"`
	MessagePair MessagePair `json:"message_pair"`

	// Command and Outcome describe what the current turn did. Notice carries
	// text the assistant must pass on, such as help or an extraction error.
	Command string `json:"command,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Notice  string `json:"notice,omitempty"`

	MissingFields    []FieldInfo `json:"missing_fields,omitempty"`
	ValidationErrors []FieldInfo `json:"validation_errors,omitempty"`
}

// IsLastPage reports whether Next on this request would complete the flow.
func (r *ToolRequest) IsLastPage() bool {
	return r.PageCount > 0 && r.PageIndex == r.PageCount-1
}
