package stepper

import "github.com/tbxark/formstepper/types"

type PageChangeFunc func(pageIndex int)

type CompleteFunc func(answers types.Answers)

// ValidatorFunc decides whether the page at pageIndex may be left forward.
// It receives a copy of the answers.
type ValidatorFunc func(pageIndex int, answers types.Answers) bool

type Option func(*Engine)

// WithInitialPage sets the page shown after initialization. Out-of-range
// indexes are clamped.
func WithInitialPage(index int) Option {
	return func(e *Engine) {
		e.index = index
	}
}

func OnPageChange(fn PageChangeFunc) Option {
	return func(e *Engine) {
		e.onPageChange = fn
	}
}

func OnComplete(fn CompleteFunc) Option {
	return func(e *Engine) {
		e.onComplete = fn
	}
}

// WithValidator replaces the required-field rule for every page.
func WithValidator(fn ValidatorFunc) Option {
	return func(e *Engine) {
		e.validator = fn
	}
}
