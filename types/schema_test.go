package types

import (
	"testing"

	"github.com/bytedance/sonic"
)

// TestAnswerSchema checks enums, required labels and property order.
func TestAnswerSchema(t *testing.T) {
	t.Parallel()
	pages := []Page{
		{Title: "About You", Fields: []Field{
			{Label: "Age", Kind: KindInput, Required: true, Placeholder: "e.g. 29"},
			{Label: "Sex Assigned at Birth", Kind: KindRadio, Options: []string{"Male", "Female", "Other"}, Required: true},
		}},
		{Title: "Habits", Fields: []Field{
			{Label: "Skip breakfast", Kind: KindCheckbox, DefaultValue: "false"},
		}},
	}
	out, err := AnswerSchema("Onboarding", pages)
	if err != nil {
		t.Fatalf("AnswerSchema: %v", err)
	}
	var doc struct {
		Type       string   `json:"type"`
		Title      string   `json:"title"`
		Required   []string `json:"required"`
		Properties map[string]struct {
			Type     string `json:"type"`
			Enum     []any  `json:"enum"`
			Default  any    `json:"default"`
			Examples []any  `json:"examples"`
		} `json:"properties"`
	}
	if err := sonic.UnmarshalString(out, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v\n%s", err, out)
	}
	if doc.Type != "object" || doc.Title != "Onboarding" {
		t.Errorf("unexpected header: %+v", doc)
	}
	if len(doc.Required) != 2 || doc.Required[0] != "Age" {
		t.Errorf("unexpected required list: %v", doc.Required)
	}
	if got := len(doc.Properties["Sex Assigned at Birth"].Enum); got != 3 {
		t.Errorf("expected 3 options in enum, got %d", got)
	}
	breakfast := doc.Properties["Skip breakfast"]
	if len(breakfast.Enum) != 2 || breakfast.Default != "false" {
		t.Errorf("checkbox should be a true/false enum with default: %+v", breakfast)
	}
	if len(doc.Properties["Age"].Examples) != 1 {
		t.Errorf("placeholder should become an example")
	}
}
