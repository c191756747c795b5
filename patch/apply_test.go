package patch

import (
	"testing"

	"github.com/tbxark/formstepper/types"
)

// TestApplyRFC6902 applies replace, add and remove against an answer map.
func TestApplyRFC6902(t *testing.T) {
	t.Parallel()
	current := types.Answers{
		"Age":      types.Text(""),
		"No dairy": types.Bool(false),
		"Area":     types.Text("Linden"),
	}
	ops := []Operation{
		Set("Age", "29"),
		{Op: OperationReplace, Path: types.PointerForLabel("No dairy"), Value: true},
		{Op: OperationReplace, Path: types.PointerForLabel("Soups & broths"), Value: "true"},
		{Op: OperationRemove, Path: types.PointerForLabel("Area")},
		{Op: OperationRemove, Path: types.PointerForLabel("Missing")},
	}
	got, err := ApplyRFC6902(current, ops)
	if err != nil {
		t.Fatalf("ApplyRFC6902: %v", err)
	}
	if got.Get("Age").String() != "29" {
		t.Errorf("Age = %q", got.Get("Age"))
	}
	if got.Get("No dairy").String() != "true" {
		t.Errorf("No dairy = %q", got.Get("No dairy"))
	}
	if got.Get("Soups & broths").String() != "true" {
		t.Errorf("replace of a missing label should add it, got %q", got.Get("Soups & broths"))
	}
	if _, ok := got["Area"]; ok {
		t.Error("Area should be removed")
	}
	if current.Get("Age").String() != "" {
		t.Error("input answers must not be modified")
	}
}

func TestApplyRFC6902Number(t *testing.T) {
	t.Parallel()
	got, err := ApplyRFC6902(types.Answers{}, []Operation{{Op: OperationAdd, Path: "/Age", Value: 29}})
	if err != nil {
		t.Fatalf("ApplyRFC6902: %v", err)
	}
	if got.Get("Age").String() != "29" {
		t.Errorf("numbers should be stringified, got %q", got.Get("Age"))
	}
}

func TestApplyRFC6902RejectsNested(t *testing.T) {
	t.Parallel()
	_, err := ApplyRFC6902(types.Answers{}, []Operation{{Op: OperationAdd, Path: "/Age", Value: map[string]any{"x": 1}}})
	if err == nil {
		t.Fatal("object values are not answers")
	}
}

func TestValidatePatchOperations(t *testing.T) {
	t.Parallel()
	page := types.Page{Title: "About You", Fields: []types.Field{{Label: "Age"}, {Label: "Height"}}}
	allowed := AllowedPaths(page)
	if err := ValidatePatchOperations([]Operation{Set("Age", "29")}, allowed); err != nil {
		t.Errorf("expected valid: %v", err)
	}
	if err := ValidatePatchOperations([]Operation{Set("Weight", "80kg")}, allowed); err == nil {
		t.Error("Weight is not on the page")
	}
	if err := ValidatePatchOperations([]Operation{{Op: "move", Path: "/Age"}}, allowed); err == nil {
		t.Error("move is not supported")
	}
	if err := ValidatePatchOperations([]Operation{Set("anything", "x")}, nil); err != nil {
		t.Errorf("an empty allow list permits everything: %v", err)
	}
}

// TestDiffRoundTrip checks that applying a diff reproduces the target.
func TestDiffRoundTrip(t *testing.T) {
	t.Parallel()
	from := types.Answers{"a": types.Text("1"), "b": types.Text("2"), "c": types.Text("3")}
	to := types.Answers{"a": types.Text("1"), "b": types.Text("20"), "d": types.Text("4")}
	ops := Diff(from, to)
	if len(ops) != 3 {
		t.Fatalf("expected 3 ops, got %+v", ops)
	}
	got, err := ApplyRFC6902(from, ops)
	if err != nil {
		t.Fatalf("ApplyRFC6902: %v", err)
	}
	if len(got) != len(to) {
		t.Fatalf("got %v, want %v", got.Strings(), to.Strings())
	}
	for label, v := range to {
		if got.Get(label).String() != v.String() {
			t.Errorf("%s = %q, want %q", label, got.Get(label), v)
		}
	}
}

// TestFixOperation checks that operations on unanswered labels are adjusted
// before the patch reaches json-patch.
func TestFixOperation(t *testing.T) {
	t.Parallel()
	current := types.Answers{"Age": types.Text("29"), "Soups & broths": types.Bool(true)}
	ops := []Operation{
		{Op: OperationReplace, Path: types.PointerForLabel("Age"), Value: "30"},
		{Op: OperationReplace, Path: types.PointerForLabel("Height"), Value: "180"},
		{Op: OperationRemove, Path: types.PointerForLabel("Weight")},
		{Op: OperationRemove, Path: types.PointerForLabel("Soups & broths")},
	}
	got := FixOperation(current, ops)
	if len(got) != 3 {
		t.Fatalf("expected 3 operations, got %d: %+v", len(got), got)
	}
	if got[0].Op != OperationReplace {
		t.Errorf("replace of an answered label should stay, got %s", got[0].Op)
	}
	if got[1].Op != OperationAdd || got[1].Path != "/Height" {
		t.Errorf("replace of a missing label should become add, got %+v", got[1])
	}
	if got[2].Op != OperationRemove || got[2].Path != types.PointerForLabel("Soups & broths") {
		t.Errorf("remove of an answered label should stay, got %+v", got[2])
	}
	if ops[1].Op != OperationReplace {
		t.Error("input operations must not be modified")
	}
}
