package onboarding

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tbxark/formstepper/conditional"
	"github.com/tbxark/formstepper/phase"
	"github.com/tbxark/formstepper/stepper"
	"github.com/tbxark/formstepper/types"
)

// CompletedAtKey is added to the final answers when the questionnaire is
// completed.
const CompletedAtKey = "completedAt"

const HelpText = "I can build a meal plan around your health, your taste, your budget and the shops near you. " +
	"It takes a few short pages: a bit about you, your health and eating habits, then your goals and preferences."

var ErrNotActive = errors.New("onboarding is not active")

var timeNow = time.Now

type State string

const (
	StateWelcome   State = "welcome"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateDismissed State = "dismissed"
)

type FlowOption func(*Flow)

// WithCompletion registers the receiver of the final answers. It is called
// at most once per flow.
func WithCompletion(fn func(answers types.Answers)) FlowOption {
	return func(f *Flow) {
		f.onComplete = fn
	}
}

func WithPhaseChange(fn func(name phase.Name)) FlowOption {
	return func(f *Flow) {
		f.onPhaseChange = fn
	}
}

func WithPartition(p phase.Partition) FlowOption {
	return func(f *Flow) {
		f.partition = p
	}
}

// WithStartPage resumes the questionnaire at a page index on Start.
func WithStartPage(index int) FlowOption {
	return func(f *Flow) {
		f.startPage = index
	}
}

func WithAnswers(answers types.Answers) FlowOption {
	return func(f *Flow) {
		f.answers = answers.Clone()
	}
}

// Flow moves the user from the welcome screen through the questionnaire to
// completion. Dismissal and completion are terminal.
type Flow struct {
	partition phase.Partition
	startPage int
	answers   types.Answers

	onComplete    func(types.Answers)
	onPhaseChange func(phase.Name)

	state   State
	helped  bool
	phase   phase.Name
	stepper *conditional.Stepper
	result  types.Answers
}

func NewFlow(opts ...FlowOption) *Flow {
	f := &Flow{
		partition: Config(),
		state:     StateWelcome,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() State { return f.state }

// Helped reports whether the help text was requested on the welcome screen.
func (f *Flow) Helped() bool { return f.helped }

// Help keeps the welcome screen and returns the help text.
func (f *Flow) Help() string {
	if f.state == StateWelcome {
		f.helped = true
	}
	return HelpText
}

// Dismiss leaves the welcome screen without starting.
func (f *Flow) Dismiss() {
	if f.state == StateWelcome {
		f.state = StateDismissed
	}
}

func (f *Flow) Start() error {
	if f.state != StateWelcome {
		return nil
	}
	opts := []conditional.Option{
		conditional.WithPredicates(Predicates()),
		conditional.WithTransform(stampCompletion),
		conditional.WithInitialPage(f.startPage),
		conditional.OnComplete(f.complete),
	}
	if f.answers != nil {
		opts = append(opts, conditional.WithInitialAnswers(f.answers))
	}
	s, err := conditional.New(Sources(f.partition), opts...)
	if err != nil {
		return err
	}
	f.stepper = s
	f.state = StateActive
	f.updatePhase()
	return nil
}

func stampCompletion(answers types.Answers) types.Answers {
	answers[CompletedAtKey] = types.Text(timeNow().UTC().Format(time.RFC3339))
	return answers
}

func (f *Flow) complete(answers types.Answers) {
	if f.state != StateActive {
		return
	}
	f.state = StateCompleted
	f.result = answers.Clone()
	slog.Info("onboarding completed", "answers", len(answers))
	if f.onComplete != nil {
		f.onComplete(answers)
	}
}

// Stepper returns the underlying stepper, nil before Start.
func (f *Flow) Stepper() *conditional.Stepper { return f.stepper }

// Result returns the final answers, nil until completion.
func (f *Flow) Result() types.Answers {
	if f.result == nil {
		return nil
	}
	return f.result.Clone()
}

func (f *Flow) Phase() phase.Name { return f.phase }

func (f *Flow) Progress() ([]phase.Step, error) {
	if f.stepper == nil {
		return nil, ErrNotActive
	}
	return f.partition.Progress(f.flatIndex())
}

func (f *Flow) SetFieldString(label, raw string) error {
	if f.state != StateActive {
		return ErrNotActive
	}
	return f.stepper.SetFieldString(label, raw)
}

func (f *Flow) Next() (stepper.Outcome, error) {
	if f.state != StateActive {
		return stepper.OutcomeNoop, nil
	}
	out, err := f.stepper.Next()
	if err != nil {
		return out, err
	}
	f.updatePhase()
	return out, nil
}

func (f *Flow) Previous() (stepper.Outcome, error) {
	if f.state != StateActive {
		return stepper.OutcomeNoop, nil
	}
	out, err := f.stepper.Previous()
	if err != nil {
		return out, err
	}
	f.updatePhase()
	return out, nil
}

// flatIndex maps the current navigable page back to its position in the
// partition, so hidden pages do not shift phase boundaries.
func (f *Flow) flatIndex() int {
	page, ok := f.stepper.Page()
	if !ok {
		return -1
	}
	for i, p := range f.partition.Flatten() {
		if p.Title == page.Title {
			return i
		}
	}
	return f.stepper.Index()
}

func (f *Flow) updatePhase() {
	if f.stepper == nil {
		return
	}
	name, err := f.partition.Lookup(f.flatIndex())
	if err != nil {
		slog.Debug("phase lookup failed", "index", f.stepper.Index(), "error", err)
		return
	}
	if name == f.phase {
		return
	}
	f.phase = name
	if f.onPhaseChange != nil {
		f.onPhaseChange(name)
	}
}
