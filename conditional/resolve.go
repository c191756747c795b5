// Package conditional turns a page specification with derived pages and
// per-field visibility rules into the concrete page list a stepper walks.
package conditional

import (
	"errors"
	"fmt"

	"github.com/tbxark/formstepper/types"
)

var ErrUnknownLabel = errors.New("visibility rule references an unknown field")

// Source produces one page from the answers collected so far.
type Source interface {
	Resolve(answers types.Answers) (types.Page, error)
}

type staticSource struct {
	page types.Page
}

func (s staticSource) Resolve(types.Answers) (types.Page, error) {
	return s.page, nil
}

// Static wraps a fixed page.
func Static(page types.Page) Source {
	return staticSource{page: page}
}

// StaticPages wraps every page in order.
func StaticPages(pages ...types.Page) []Source {
	sources := make([]Source, 0, len(pages))
	for _, p := range pages {
		sources = append(sources, Static(p))
	}
	return sources
}

type DerivedFunc func(answers types.Answers) (types.Page, error)

type derivedSource struct {
	fn DerivedFunc
}

func (s derivedSource) Resolve(answers types.Answers) (types.Page, error) {
	return s.fn(answers)
}

// Derived computes its page from the answers on every resolution.
func Derived(fn DerivedFunc) Source {
	return derivedSource{fn: fn}
}

// Predicate decides whether a field is shown. It receives a copy of the
// answers.
type Predicate func(answers types.Answers) bool

// Predicates are keyed by field label. Fields without an entry are visible.
type Predicates map[string]Predicate

type Resolution struct {
	// All holds every resolved page before visibility filtering.
	All []types.Page
	// Pages holds the navigable pages: visible fields only, empty pages dropped.
	Pages []types.Page
	// Positions maps each entry of Pages to its index in All.
	Positions []int
	// Hidden lists the labels removed by predicates, in page order.
	Hidden []string
}

// Position returns the index in All of the navigable page at index.
func (r Resolution) Position(index int) (int, bool) {
	if index < 0 || index >= len(r.Positions) {
		return 0, false
	}
	return r.Positions[index], true
}

// Anchor returns the navigable index of the first page at or after position
// in All, or the last navigable page when none follows.
func (r Resolution) Anchor(position int) int {
	for i, p := range r.Positions {
		if p >= position {
			return i
		}
	}
	return max(len(r.Positions)-1, 0)
}

// Resolve evaluates every source against the same answer snapshot, then
// applies every predicate, then drops pages left without fields. The order is
// fixed so a predicate may read any label, including labels on pages that end
// up dropped.
func Resolve(sources []Source, predicates Predicates, answers types.Answers) (Resolution, error) {
	snapshot := answers.Clone()

	all := make([]types.Page, 0, len(sources))
	for i, src := range sources {
		if src == nil {
			return Resolution{}, fmt.Errorf("page source %d is nil", i)
		}
		page, err := src.Resolve(snapshot.Clone())
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve page %d: %w", i, err)
		}
		all = append(all, page)
	}

	if err := checkPredicates(predicates, all, snapshot); err != nil {
		return Resolution{}, err
	}

	res := Resolution{All: all, Pages: make([]types.Page, 0, len(all))}
	for i, page := range all {
		visible := make([]types.Field, 0, len(page.Fields))
		for _, f := range page.Fields {
			if pred, ok := predicates[f.Label]; ok && !pred(snapshot.Clone()) {
				res.Hidden = append(res.Hidden, f.Label)
				continue
			}
			visible = append(visible, f)
		}
		if len(visible) == 0 {
			continue
		}
		page.Fields = visible
		res.Pages = append(res.Pages, page)
		res.Positions = append(res.Positions, i)
	}
	return res, nil
}

func checkPredicates(predicates Predicates, pages []types.Page, answers types.Answers) error {
	for label, pred := range predicates {
		if pred == nil {
			return fmt.Errorf("visibility rule for %q is nil", label)
		}
		if _, ok := answers[label]; ok {
			continue
		}
		if _, ok := types.FindField(pages, label); ok {
			continue
		}
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return nil
}
