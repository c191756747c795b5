package conditional

import (
	"github.com/tbxark/formstepper/patch"
	"github.com/tbxark/formstepper/stepper"
	"github.com/tbxark/formstepper/types"
)

// TransformFunc rewrites the answers once, right before completion is
// reported.
type TransformFunc func(answers types.Answers) types.Answers

type Option func(*Stepper)

func WithPredicates(predicates Predicates) Option {
	return func(s *Stepper) {
		s.predicates = predicates
	}
}

func WithTransform(fn TransformFunc) Option {
	return func(s *Stepper) {
		s.transform = fn
	}
}

// WithPageValidator fully replaces the required-field rule. The index is the
// position in the navigable page list.
func WithPageValidator(fn stepper.ValidatorFunc) Option {
	return func(s *Stepper) {
		s.validate = fn
	}
}

func WithInitialPage(index int) Option {
	return func(s *Stepper) {
		s.initialPage = index
	}
}

// WithInitialAnswers restores answers from an earlier session. They win over
// field defaults and are re-decoded by field kind.
func WithInitialAnswers(answers types.Answers) Option {
	return func(s *Stepper) {
		s.running = answers.Clone()
	}
}

func OnPageChange(fn stepper.PageChangeFunc) Option {
	return func(s *Stepper) {
		s.onPageChange = fn
	}
}

func OnComplete(fn stepper.CompleteFunc) Option {
	return func(s *Stepper) {
		s.onComplete = fn
	}
}

// Stepper wraps a stepper.Engine and re-resolves its pages after every edit
// and every move, so derived pages and visibility rules follow the answers.
type Stepper struct {
	sources     []Source
	predicates  Predicates
	transform   TransformFunc
	validate    stepper.ValidatorFunc
	initialPage int

	onPageChange stepper.PageChangeFunc
	onComplete   stepper.CompleteFunc

	running    types.Answers
	resolution Resolution
	engine     *stepper.Engine
}

func New(sources []Source, opts ...Option) (*Stepper, error) {
	s := &Stepper{
		sources: append([]Source(nil), sources...),
		running: types.Answers{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.start(s.initialPage); err != nil {
		return nil, err
	}
	return s, nil
}

// start resolves twice: once to learn the defaults of every page, once more
// with those defaults in place so derived pages can depend on fields the user
// never visits.
func (s *Stepper) start(initialPage int) error {
	first, err := Resolve(s.sources, s.predicates, s.running)
	if err != nil {
		return err
	}
	seed := types.Defaults(first.All)
	for label, v := range s.running.Normalize(first.All) {
		seed[label] = v
	}

	res, err := Resolve(s.sources, s.predicates, seed)
	if err != nil {
		return err
	}

	engine := stepper.New(nil, stepper.OnComplete(s.handleComplete))
	if s.validate != nil {
		engine.SetValidator(s.validate)
	}
	engine.Initialize(res.Pages, initialPage)
	engine.SeedDefaults(res.All)
	engine.Seed(seed)

	s.engine = engine
	s.resolution = res
	s.running = engine.Answers()
	return nil
}

// refresh re-resolves the pages against the current answers. The user stays
// on the page they were looking at even when pages before it appear or
// disappear; with notify set, a resulting index change is reported.
func (s *Stepper) refresh(notify bool) error {
	before := s.engine.Index()
	position, anchored := s.resolution.Position(before)

	res, err := Resolve(s.sources, s.predicates, s.engine.Answers())
	if err != nil {
		return err
	}
	s.resolution = res
	s.engine.SeedDefaults(res.All)
	s.engine.SetPages(res.Pages)
	if anchored {
		s.engine.MoveTo(res.Anchor(position))
	}
	s.running = s.engine.Answers()

	if notify && s.onPageChange != nil && s.engine.Index() != before {
		s.onPageChange(s.engine.Index())
	}
	return nil
}

func (s *Stepper) handleComplete(answers types.Answers) {
	final := answers
	if s.transform != nil {
		final = s.transform(answers.Clone())
	}
	s.running = final.Clone()
	if s.onComplete != nil {
		s.onComplete(final)
	}
}

func (s *Stepper) SetFieldValue(label string, v types.Value) error {
	s.engine.SetFieldValue(label, v)
	return s.refresh(true)
}

func (s *Stepper) SetFieldString(label, raw string) error {
	if err := s.engine.SetFieldString(label, raw); err != nil {
		return err
	}
	return s.refresh(true)
}

func (s *Stepper) ApplyPatch(ops []patch.Operation) error {
	if err := s.engine.ApplyPatch(ops); err != nil {
		return err
	}
	return s.refresh(true)
}

// Next advances or completes. Page-change listeners see the index after the
// pages were re-resolved. A completion makes the transformed answers the
// working answers, so later moves resolve against them.
func (s *Stepper) Next() (stepper.Outcome, error) {
	out := s.engine.Next()
	switch out {
	case stepper.OutcomeCompleted:
		s.engine.ReplaceAnswers(s.running)
		return out, s.refresh(false)
	case stepper.OutcomeAdvanced:
		return out, s.move()
	}
	return out, nil
}

func (s *Stepper) Previous() (stepper.Outcome, error) {
	out := s.engine.Previous()
	if out != stepper.OutcomeRetreated {
		return out, nil
	}
	return out, s.move()
}

// move anchors on the page the engine just moved to, then reports it.
func (s *Stepper) move() error {
	if err := s.refresh(false); err != nil {
		return err
	}
	if s.onPageChange != nil {
		s.onPageChange(s.engine.Index())
	}
	return nil
}

// Restart begins again from the first page, resolving against the running
// answers. After a completion these are the transformed answers.
func (s *Stepper) Restart() error {
	return s.start(0)
}

func (s *Stepper) Page() (types.Page, bool) { return s.engine.Page() }
func (s *Stepper) Pages() []types.Page      { return s.engine.Pages() }
func (s *Stepper) Index() int               { return s.engine.Index() }
func (s *Stepper) PageCount() int           { return s.engine.PageCount() }
func (s *Stepper) Empty() bool              { return s.engine.Empty() }
func (s *Stepper) IsLast() bool             { return s.engine.IsLast() }
func (s *Stepper) Valid() bool              { return s.engine.Valid() }
func (s *Stepper) Answers() types.Answers   { return s.engine.Answers() }
func (s *Stepper) Resolution() Resolution   { return s.resolution }
func (s *Stepper) MissingFields() []types.FieldInfo {
	return s.engine.MissingFields()
}

// Running returns the answer map used for page resolution. After a
// completion it holds the transformed result, as does Answers.
func (s *Stepper) Running() types.Answers {
	return s.running.Clone()
}
