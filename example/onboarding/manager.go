package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbxark/formstepper/agent"
	"github.com/tbxark/formstepper/types"
)

var _ agent.Manager = (*OnboardingManager)(nil)

type OnboardingManager struct{}

func (m *OnboardingManager) Cancel(ctx context.Context, answers types.Answers) error {
	slog.Debug("Onboarding dismissed", "answers", len(answers))
	return nil
}

func (m *OnboardingManager) Submit(ctx context.Context, answers types.Answers) error {
	slog.Info("Onboarding submitted", "answers", len(answers))
	fmt.Println(types.FormatAnswers(answers))
	return nil
}
