package onboarding

import (
	"github.com/tbxark/formstepper/agent"
)

// AgentSpec describes the onboarding questionnaire for a conversational
// agent. The welcome screen replaces the first page, so sessions start on
// "About You".
func AgentSpec() *agent.Spec {
	return &agent.Spec{
		Title:      "Onboarding",
		Partition:  Config(),
		Predicates: Predicates(),
		Transform:  stampCompletion,
		HelpText:   HelpText,
		StartPage:  1,
	}
}
