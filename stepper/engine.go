// Package stepper walks a list of pages one at a time, keeping the answers of
// every field and whether the current page may be left forward.
//
// An Engine is not safe for concurrent use; events are expected to arrive one
// at a time from a single owner.
package stepper

import (
	"errors"
	"fmt"

	"github.com/tbxark/formstepper/patch"
	"github.com/tbxark/formstepper/types"
)

var ErrUnknownField = errors.New("unknown field")

// Outcome is the result of a navigation request.
type Outcome int

const (
	OutcomeNoop Outcome = iota
	OutcomeBlocked
	OutcomeAdvanced
	OutcomeRetreated
	OutcomeCompleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeRetreated:
		return "retreated"
	case OutcomeCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type Engine struct {
	pages   []types.Page
	known   []types.Page
	index   int
	answers types.Answers
	valid   bool

	validator    ValidatorFunc
	onPageChange PageChangeFunc
	onComplete   CompleteFunc
}

func New(pages []types.Page, opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.Initialize(pages, e.index)
	return e
}

// Initialize replaces the page list and seeds the answers with the default of
// every field on every page, not only the current one.
func (e *Engine) Initialize(pages []types.Page, initialPageIndex int) {
	e.pages = append([]types.Page(nil), pages...)
	e.known = nil
	e.answers = types.Defaults(e.pages)
	e.index = e.clamp(initialPageIndex)
	e.revalidate()
}

// SetPages swaps the page list while keeping the answers. Labels seen for
// the first time get their default and the index is clamped to the new list.
func (e *Engine) SetPages(pages []types.Page) {
	e.pages = append([]types.Page(nil), pages...)
	e.seedMissing(e.pages)
	e.index = e.clamp(e.index)
	e.revalidate()
}

// SeedDefaults records the full schema behind the navigable pages, such as
// pages whose fields are hidden by a visibility rule, and seeds the defaults
// of labels that have no answer yet.
func (e *Engine) SeedDefaults(pages []types.Page) {
	e.known = append([]types.Page(nil), pages...)
	e.seedMissing(pages)
	e.revalidate()
}

// Seed overlays answers on the current ones.
func (e *Engine) Seed(answers types.Answers) {
	for label, v := range answers {
		e.answers[label] = v
	}
	e.revalidate()
}

// ReplaceAnswers swaps in a whole answer map, such as the result of a
// completion transform. Labels it lacks get their default again.
func (e *Engine) ReplaceAnswers(answers types.Answers) {
	e.answers = answers.Clone()
	if e.answers == nil {
		e.answers = types.Answers{}
	}
	e.seedMissing(e.known)
	e.seedMissing(e.pages)
	e.revalidate()
}

func (e *Engine) SetValidator(fn ValidatorFunc) {
	e.validator = fn
	e.revalidate()
}

func (e *Engine) SetCallbacks(onPageChange PageChangeFunc, onComplete CompleteFunc) {
	e.onPageChange = onPageChange
	e.onComplete = onComplete
}

func (e *Engine) seedMissing(pages []types.Page) {
	for _, p := range pages {
		for _, f := range p.Fields {
			if _, ok := e.answers[f.Label]; !ok {
				e.answers[f.Label] = f.Default()
			}
		}
	}
}

func (e *Engine) clamp(index int) int {
	if len(e.pages) == 0 || index < 0 {
		return 0
	}
	if index >= len(e.pages) {
		return len(e.pages) - 1
	}
	return index
}

// MoveTo jumps to index, clamped to the page list. Unlike Next and Previous
// it ignores validity and does not notify the page-change listener.
func (e *Engine) MoveTo(index int) {
	e.index = e.clamp(index)
	e.revalidate()
}

// Empty reports the "no content" state. Navigation is inert while empty.
func (e *Engine) Empty() bool {
	return len(e.pages) == 0
}

func (e *Engine) PageCount() int {
	return len(e.pages)
}

func (e *Engine) Index() int {
	return e.index
}

func (e *Engine) IsLast() bool {
	return !e.Empty() && e.index == len(e.pages)-1
}

func (e *Engine) Page() (types.Page, bool) {
	if e.Empty() {
		return types.Page{}, false
	}
	return e.pages[e.index], true
}

func (e *Engine) Pages() []types.Page {
	return append([]types.Page(nil), e.pages...)
}

// Answers returns a copy of every answer, including fields on other pages.
func (e *Engine) Answers() types.Answers {
	return e.answers.Clone()
}

func (e *Engine) Value(label string) (types.Value, bool) {
	v, ok := e.answers[label]
	return v, ok
}

func (e *Engine) Valid() bool {
	return e.valid
}

// SetFieldValue replaces one answer without checking it against the field
// kind and recomputes validity of the current page.
func (e *Engine) SetFieldValue(label string, v types.Value) {
	e.answers[label] = v
	e.revalidate()
}

// SetFieldString decodes raw using the kind of the field named label.
func (e *Engine) SetFieldString(label, raw string) error {
	f, ok := types.FindField(e.pages, label)
	if !ok {
		f, ok = types.FindField(e.known, label)
	}
	if !ok {
		if _, seeded := e.answers[label]; !seeded {
			return fmt.Errorf("%w: %q", ErrUnknownField, label)
		}
		f = types.Field{Label: label, Kind: types.KindText}
	}
	e.SetFieldValue(label, types.DecodeValue(f.Kind, raw))
	return nil
}

// ApplyPatch edits the answers with RFC6902 operations addressed by
// types.PointerForLabel.
func (e *Engine) ApplyPatch(ops []patch.Operation) error {
	next, err := patch.ApplyRFC6902(e.answers, ops)
	if err != nil {
		return err
	}
	e.answers = next.Normalize(append(append([]types.Page(nil), e.known...), e.pages...))
	e.revalidate()
	return nil
}

// Next moves forward one page, or on the last page hands a copy of the
// answers to the completion callback and stays put. It does nothing while the
// current page is invalid.
func (e *Engine) Next() Outcome {
	if e.Empty() {
		return OutcomeNoop
	}
	if !e.valid {
		return OutcomeBlocked
	}
	if e.index == len(e.pages)-1 {
		if e.onComplete != nil {
			e.onComplete(e.answers.Clone())
		}
		return OutcomeCompleted
	}
	e.index++
	e.revalidate()
	if e.onPageChange != nil {
		e.onPageChange(e.index)
	}
	return OutcomeAdvanced
}

func (e *Engine) Previous() Outcome {
	if e.Empty() || e.index == 0 {
		return OutcomeNoop
	}
	e.index--
	e.revalidate()
	if e.onPageChange != nil {
		e.onPageChange(e.index)
	}
	return OutcomeRetreated
}

// MissingFields lists the required fields of the current page that are still
// blank.
func (e *Engine) MissingFields() []types.FieldInfo {
	page, ok := e.Page()
	if !ok {
		return nil
	}
	var missing []types.FieldInfo
	for _, f := range page.Fields {
		if !f.Filled(e.answers.Get(f.Label)) {
			missing = append(missing, types.FieldInfo{
				JSONPointer: types.PointerForLabel(f.Label),
				DisplayName: f.Label,
				Description: f.Placeholder,
				Required:    true,
			})
		}
	}
	return missing
}

func (e *Engine) revalidate() {
	page, ok := e.Page()
	switch {
	case !ok:
		e.valid = false
	case e.validator != nil:
		e.valid = e.validator(e.index, e.answers.Clone())
	default:
		e.valid = PageValid(page, e.answers)
	}
}

// PageValid reports whether every required field of page has a non-blank
// answer.
func PageValid(page types.Page, answers types.Answers) bool {
	for _, f := range page.Fields {
		if !f.Filled(answers.Get(f.Label)) {
			return false
		}
	}
	return true
}
