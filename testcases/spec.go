package testcases

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/tbxark/formstepper/agent"
	"github.com/tbxark/formstepper/phase"
	"github.com/tbxark/formstepper/types"
)

// RegistrationSpec is a two page signup questionnaire with its own page
// rules: a plausible email on the first page, an age of 18-100 on the
// second.
func RegistrationSpec() *agent.Spec {
	return &agent.Spec{
		Title: "Registration",
		Partition: phase.Partition{
			{Name: "account", Label: "Account", Pages: []types.Page{{
				Title: "Account",
				Copy:  "Who are you?",
				Fields: []types.Field{
					{Label: "Name", Kind: types.KindInput, Required: true},
					{Label: "Email", Kind: types.KindInput, Required: true, Placeholder: "name@example.com"},
				},
			}}},
			{Name: "profile", Label: "Profile", Pages: []types.Page{{
				Title: "Profile",
				Fields: []types.Field{
					{Label: "Age", Kind: types.KindInput, Required: true},
					{Label: "Newsletter", Kind: types.KindSwitch, DefaultValue: "false"},
				},
			}}},
		},
		Validator:   validateRegistration,
		HelpText:    "I'll ask for your name, email and age.",
		SkipWelcome: true,
	}
}

func validateRegistration(pageIndex int, answers types.Answers) bool {
	switch pageIndex {
	case 0:
		name := strings.TrimSpace(answers.Get("Name").String())
		email := strings.TrimSpace(answers.Get("Email").String())
		return name != "" && strings.Contains(email, "@")
	case 1:
		age, err := strconv.Atoi(strings.TrimSpace(answers.Get("Age").String()))
		return err == nil && age >= 18 && age <= 100
	}
	return true
}

// RecordingManager keeps every submitted and cancelled answer set.
type RecordingManager struct {
	mu        sync.Mutex
	Submitted []types.Answers
	Cancelled []types.Answers
}

func (m *RecordingManager) Submit(ctx context.Context, answers types.Answers) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted = append(m.Submitted, answers)
	return nil
}

func (m *RecordingManager) Cancel(ctx context.Context, answers types.Answers) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancelled = append(m.Cancelled, answers)
	return nil
}
