package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

type ValueKind uint8

const (
	ValueText ValueKind = iota
	ValueChoice
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueChoice:
		return "choice"
	case ValueBool:
		return "bool"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a single answer. The zero Value is an empty Text.
// On the wire every variant is a plain string; Bool encodes as "true"/"false".
type Value struct {
	kind ValueKind
	text string
	flag bool
}

func Text(s string) Value   { return Value{kind: ValueText, text: s} }
func Choice(s string) Value { return Value{kind: ValueChoice, text: s} }
func Bool(b bool) Value     { return Value{kind: ValueBool, flag: b} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) String() string {
	if v.kind == ValueBool {
		if v.flag {
			return "true"
		}
		return "false"
	}
	return v.text
}

// AsBool returns the flag of a Bool value; ok is false for other variants.
func (v Value) AsBool() (b bool, ok bool) {
	if v.kind != ValueBool {
		return false, false
	}
	return v.flag, true
}

// IsBlank reports whether the encoded value is empty after trimming.
func (v Value) IsBlank() bool {
	return strings.TrimSpace(v.String()) == ""
}

func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.String() == o.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(v.String())
}

// UnmarshalJSON decodes any JSON string as Text. Answers.Normalize restores
// the variant from the field kind.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		var b bool
		if bErr := sonic.Unmarshal(data, &b); bErr != nil {
			return fmt.Errorf("decode answer value: %w", err)
		}
		*v = Bool(b)
		return nil
	}
	*v = Text(s)
	return nil
}

// DecodeValue converts a raw boundary string into the variant matching kind.
// Boolean controls only become Bool for "true"/"false"; anything else is kept
// verbatim as Text so unset toggles stay blank.
func DecodeValue(kind FieldKind, raw string) Value {
	switch {
	case kind.IsBoolean():
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true":
			return Bool(true)
		case "false":
			return Bool(false)
		}
		return Text(raw)
	case kind.IsChoice():
		return Choice(raw)
	default:
		return Text(raw)
	}
}

// Answers maps field labels to their current value.
type Answers map[string]Value

func (a Answers) Get(label string) Value {
	return a[label]
}

func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func (a Answers) Labels() []string {
	labels := make([]string, 0, len(a))
	for k := range a {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

func (a Answers) Strings() map[string]string {
	out := make(map[string]string, len(a))
	for k, v := range a {
		out[k] = v.String()
	}
	return out
}

func AnswersFromStrings(m map[string]string) Answers {
	out := make(Answers, len(m))
	for k, v := range m {
		out[k] = Text(v)
	}
	return out
}

// Normalize re-decodes every answer whose label is defined in pages using the
// field's kind. Labels without a definition are kept as they are.
func (a Answers) Normalize(pages []Page) Answers {
	out := a.Clone()
	for _, p := range pages {
		for _, f := range p.Fields {
			if v, ok := out[f.Label]; ok {
				out[f.Label] = DecodeValue(f.Kind, v.String())
			}
		}
	}
	return out
}

// Defaults collects every field's default value across pages.
func Defaults(pages []Page) Answers {
	out := make(Answers)
	for _, p := range pages {
		for _, f := range p.Fields {
			out[f.Label] = f.Default()
		}
	}
	return out
}
