package agent

import (
	"context"

	"github.com/tbxark/formstepper/conditional"
	"github.com/tbxark/formstepper/phase"
	"github.com/tbxark/formstepper/stepper"
	"github.com/tbxark/formstepper/types"
)

// Spec describes the questionnaire a flow walks through. Sources default to
// the flattened Partition.
type Spec struct {
	Title      string
	Partition  phase.Partition
	Sources    []conditional.Source
	Predicates conditional.Predicates
	Transform  conditional.TransformFunc
	Validator  stepper.ValidatorFunc
	HelpText   string

	// SkipWelcome starts new sessions directly on StartPage. Back never moves
	// before StartPage.
	SkipWelcome bool
	StartPage   int
}

// Manager receives the outcome of a session.
type Manager interface {
	Submit(ctx context.Context, answers types.Answers) error
	Cancel(ctx context.Context, answers types.Answers) error
}

func (s *Spec) sources() []conditional.Source {
	if s.Sources != nil {
		return s.Sources
	}
	return conditional.StaticPages(s.Partition.Flatten()...)
}

// InitState returns the snapshot of a new session.
func (s *Spec) InitState() *State {
	if s.SkipWelcome {
		return &State{Status: types.StatusActive, PageIndex: s.StartPage}
	}
	return &State{Status: types.StatusWelcome}
}

func (s *Spec) newStepper(state *State, onComplete stepper.CompleteFunc) (*conditional.Stepper, error) {
	opts := []conditional.Option{
		conditional.WithInitialPage(state.PageIndex),
		conditional.OnComplete(onComplete),
	}
	if state.Answers != nil {
		opts = append(opts, conditional.WithInitialAnswers(state.Answers))
	}
	if s.Predicates != nil {
		opts = append(opts, conditional.WithPredicates(s.Predicates))
	}
	if s.Transform != nil {
		opts = append(opts, conditional.WithTransform(s.Transform))
	}
	if s.Validator != nil {
		opts = append(opts, conditional.WithPageValidator(s.Validator))
	}
	return conditional.New(s.sources(), opts...)
}

// phaseOf names the phase of a resolved page by its title, falling back to
// the position when the title is not part of the partition.
func (s *Spec) phaseOf(page types.Page, index int) string {
	if len(s.Partition) == 0 {
		return ""
	}
	for _, g := range s.Partition {
		for _, p := range g.Pages {
			if p.Title == page.Title {
				return phaseLabel(g)
			}
		}
	}
	g, err := s.Partition.Group(index)
	if err != nil {
		return ""
	}
	return phaseLabel(g)
}

func phaseLabel(g phase.Group) string {
	if g.Label != "" {
		return g.Label
	}
	return string(g.Name)
}
