package stepper

import (
	"errors"
	"testing"

	"github.com/tbxark/formstepper/patch"
	"github.com/tbxark/formstepper/types"
)

func testPages() []types.Page {
	return []types.Page{
		{Title: "Intro", Fields: []types.Field{
			{Label: "Nickname", Kind: types.KindText},
		}},
		{Title: "About You", Fields: []types.Field{
			{Label: "Age", Kind: types.KindInput, Required: true},
			{Label: "Sex Assigned at Birth", Kind: types.KindRadio, Options: []string{"Male", "Female", "Other"}, Required: true},
		}},
		{Title: "Habits", Fields: []types.Field{
			{Label: "Skip breakfast", Kind: types.KindCheckbox, DefaultValue: "false"},
			{Label: "Ready", Kind: types.KindRadio, DefaultValue: "build", Required: true},
		}},
	}
}

// TestPageWithoutRequiredFieldsIsValid checks a page with no required fields.
func TestPageWithoutRequiredFieldsIsValid(t *testing.T) {
	t.Parallel()
	e := New(testPages())
	if !e.Valid() {
		t.Fatal("page without required fields should be valid")
	}
}

// TestRequiredFieldValidity goes from blank to whitespace to filled.
func TestRequiredFieldValidity(t *testing.T) {
	t.Parallel()
	e := New(testPages(), WithInitialPage(1))
	if e.Valid() {
		t.Fatal("blank required fields should make the page invalid")
	}
	e.SetFieldValue("Age", types.Text("   "))
	e.SetFieldValue("Sex Assigned at Birth", types.Choice("Male"))
	if e.Valid() {
		t.Fatal("whitespace-only answers should not count")
	}
	e.SetFieldValue("Age", types.Text("29"))
	if !e.Valid() {
		t.Fatal("page should be valid once every required field is filled")
	}
	if len(e.MissingFields()) != 0 {
		t.Errorf("no missing fields expected, got %+v", e.MissingFields())
	}
	e.SetFieldValue("Age", types.Text(""))
	missing := e.MissingFields()
	if e.Valid() || len(missing) != 1 || missing[0].DisplayName != "Age" {
		t.Errorf("clearing Age should invalidate the page, missing=%+v", missing)
	}
}

// TestNextAdvancesAndNotifies moves forward and fires the page change.
func TestNextAdvancesAndNotifies(t *testing.T) {
	t.Parallel()
	var changed []int
	e := New(testPages(), OnPageChange(func(i int) { changed = append(changed, i) }))
	if out := e.Next(); out != OutcomeAdvanced {
		t.Fatalf("expected advanced, got %s", out)
	}
	if e.Index() != 1 {
		t.Errorf("expected index 1, got %d", e.Index())
	}
	if len(changed) != 1 || changed[0] != 1 {
		t.Errorf("expected one page change to 1, got %v", changed)
	}
	if e.Valid() {
		t.Error("validity should be recomputed for the new page")
	}
}

// TestNextBlockedWhenInvalid leaves everything untouched.
func TestNextBlockedWhenInvalid(t *testing.T) {
	t.Parallel()
	calls := 0
	e := New(testPages(), WithInitialPage(1), OnPageChange(func(int) { calls++ }))
	if out := e.Next(); out != OutcomeBlocked {
		t.Fatalf("expected blocked, got %s", out)
	}
	if e.Index() != 1 || calls != 0 {
		t.Errorf("blocked Next must not move: index=%d calls=%d", e.Index(), calls)
	}
}

// TestNextOnLastPageCompletes hands over every initialized label once and
// keeps the index.
func TestNextOnLastPageCompletes(t *testing.T) {
	t.Parallel()
	var completions []types.Answers
	e := New(testPages(), WithInitialPage(2), OnComplete(func(a types.Answers) {
		completions = append(completions, a)
	}))
	if out := e.Next(); out != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", out)
	}
	if len(completions) != 1 {
		t.Fatalf("expected one completion, got %d", len(completions))
	}
	if e.Index() != 2 {
		t.Errorf("completion must not move the index, got %d", e.Index())
	}
	for _, label := range []string{"Nickname", "Age", "Sex Assigned at Birth", "Skip breakfast", "Ready"} {
		if _, ok := completions[0][label]; !ok {
			t.Errorf("completion is missing %q", label)
		}
	}
	completions[0]["Nickname"] = types.Text("changed")
	if v, _ := e.Value("Nickname"); v.String() == "changed" {
		t.Error("completion must receive a copy")
	}
}

func TestNextOnLastPageWithoutCallback(t *testing.T) {
	t.Parallel()
	e := New(testPages(), WithInitialPage(2))
	if out := e.Next(); out != OutcomeCompleted {
		t.Fatalf("expected completed, got %s", out)
	}
}

// TestPrevious ignores validity and is a no-op on the first page.
func TestPrevious(t *testing.T) {
	t.Parallel()
	var changed []int
	e := New(testPages(), OnPageChange(func(i int) { changed = append(changed, i) }))
	if out := e.Previous(); out != OutcomeNoop {
		t.Fatalf("expected noop at index 0, got %s", out)
	}
	if len(changed) != 0 {
		t.Fatalf("no page change expected, got %v", changed)
	}

	e = New(testPages(), WithInitialPage(1), OnPageChange(func(i int) { changed = append(changed, i) }))
	if e.Valid() {
		t.Fatal("precondition: page 1 is invalid")
	}
	if out := e.Previous(); out != OutcomeRetreated || e.Index() != 0 {
		t.Fatalf("expected retreat to 0, got %s at %d", out, e.Index())
	}
	if len(changed) != 1 || changed[0] != 0 {
		t.Errorf("expected page change to 0, got %v", changed)
	}
}

// TestInitializeSeedsDefaultsAcrossPages seeds fields the user never visits.
func TestInitializeSeedsDefaultsAcrossPages(t *testing.T) {
	t.Parallel()
	e := New(testPages())
	v, ok := e.Value("Ready")
	if !ok || v.String() != "build" {
		t.Errorf("default of a later page should be seeded, got %q, %v", v, ok)
	}
	b, ok := e.Answers().Get("Skip breakfast").AsBool()
	if !ok || b {
		t.Errorf("checkbox default should decode to Bool(false)")
	}
}

func TestInitializeClampsIndex(t *testing.T) {
	t.Parallel()
	e := New(testPages(), WithInitialPage(42))
	if e.Index() != 2 {
		t.Errorf("expected clamp to 2, got %d", e.Index())
	}
	e.Initialize(testPages(), -3)
	if e.Index() != 0 {
		t.Errorf("expected clamp to 0, got %d", e.Index())
	}
}

// TestEmptyEngine reports no content and ignores navigation.
func TestEmptyEngine(t *testing.T) {
	t.Parallel()
	completed := false
	e := New(nil, OnComplete(func(types.Answers) { completed = true }))
	if !e.Empty() || e.PageCount() != 0 {
		t.Fatal("expected empty engine")
	}
	if _, ok := e.Page(); ok {
		t.Error("empty engine has no page")
	}
	if out := e.Next(); out != OutcomeNoop {
		t.Errorf("Next on empty: %s", out)
	}
	if out := e.Previous(); out != OutcomeNoop {
		t.Errorf("Previous on empty: %s", out)
	}
	if completed {
		t.Error("empty engine must not complete")
	}
}

func TestSetFieldString(t *testing.T) {
	t.Parallel()
	e := New(testPages())
	if err := e.SetFieldString("Skip breakfast", "true"); err != nil {
		t.Fatalf("SetFieldString: %v", err)
	}
	if b, ok := e.Answers().Get("Skip breakfast").AsBool(); !ok || !b {
		t.Error("checkbox should decode to Bool(true)")
	}
	if err := e.SetFieldString("Sex Assigned at Birth", "Other"); err != nil {
		t.Fatalf("SetFieldString: %v", err)
	}
	if v, _ := e.Value("Sex Assigned at Birth"); v.Kind() != types.ValueChoice {
		t.Errorf("radio should decode to Choice, got %s", v.Kind())
	}
	if err := e.SetFieldString("Shoe size", "44"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestApplyPatchNormalizes(t *testing.T) {
	t.Parallel()
	e := New(testPages(), WithInitialPage(1))
	err := e.ApplyPatch([]patch.Operation{
		patch.Set("Age", "29"),
		patch.Set("Sex Assigned at Birth", "Female"),
		patch.Set("Skip breakfast", "true"),
	})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if !e.Valid() {
		t.Error("patch should fill the page")
	}
	if b, ok := e.Answers().Get("Skip breakfast").AsBool(); !ok || !b {
		t.Error("patched checkbox should decode to Bool(true)")
	}
}

// TestValidatorReplacesRequiredRule lets a custom validator decide alone.
func TestValidatorReplacesRequiredRule(t *testing.T) {
	t.Parallel()
	e := New(testPages(), WithInitialPage(1), WithValidator(func(i int, a types.Answers) bool {
		return i == 1 && a.Get("Age").String() == "18"
	}))
	e.SetFieldValue("Age", types.Text("18"))
	if !e.Valid() {
		t.Fatal("validator accepts Age 18 even with a missing required field")
	}
	e = New(testPages(), WithValidator(func(int, types.Answers) bool { return false }))
	if out := e.Next(); out != OutcomeBlocked {
		t.Errorf("validator rejects every page, got %s", out)
	}
}

func TestSetPagesKeepsAnswers(t *testing.T) {
	t.Parallel()
	e := New(testPages(), WithInitialPage(2))
	e.SetFieldValue("Age", types.Text("40"))
	e.SetPages(testPages()[:1])
	if e.Index() != 0 {
		t.Errorf("index should be clamped to 0, got %d", e.Index())
	}
	if v, _ := e.Value("Age"); v.String() != "40" {
		t.Errorf("answers should survive SetPages, got %q", v)
	}
}

// TestReplaceAnswers swaps the answer map and re-seeds missing defaults.
func TestReplaceAnswers(t *testing.T) {
	t.Parallel()
	e := New(testPages(), WithInitialPage(1))
	e.ReplaceAnswers(types.Answers{
		"Age":                   types.Text("29"),
		"Sex Assigned at Birth": types.Choice("Female"),
		"tag":                   types.Text("x"),
	})
	if !e.Valid() {
		t.Error("replacing answers should revalidate the current page")
	}
	if got := e.Answers().Get("tag").String(); got != "x" {
		t.Errorf("extra labels should be kept, got %q", got)
	}
	if v, ok := e.Value("Skip breakfast"); !ok || v.String() != "false" {
		t.Errorf("labels without an answer should get their default, got %q", v)
	}
}

// TestMoveTo jumps without a callback and clamps the index.
func TestMoveTo(t *testing.T) {
	t.Parallel()
	calls := 0
	e := New(testPages(), OnPageChange(func(int) { calls++ }))
	e.MoveTo(1)
	if e.Index() != 1 || e.Valid() {
		t.Errorf("expected invalid page 1, got index=%d valid=%v", e.Index(), e.Valid())
	}
	e.MoveTo(9)
	if e.Index() != 2 {
		t.Errorf("index should clamp to the last page, got %d", e.Index())
	}
	if calls != 0 {
		t.Errorf("MoveTo should not notify, got %d calls", calls)
	}
}
