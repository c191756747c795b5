package testcases

import (
	"strings"
	"testing"

	"github.com/tbxark/formstepper/agent"
	"github.com/tbxark/formstepper/onboarding"
	"github.com/tbxark/formstepper/types"
)

// TestOnboardingCompletes walks the whole onboarding questionnaire with the
// local components.
func TestOnboardingCompletes(t *testing.T) {
	t.Parallel()
	manager := &RecordingManager{}
	session := NewLocalSession(t, onboarding.AgentSpec(), agent.WithManager(manager))

	reply, state := session.Say(t, "hi")
	if state.Status != types.StatusWelcome {
		t.Fatalf("expected welcome, got %s", state.Status)
	}
	t.Logf("welcome: %s", reply)

	reply, state = session.Say(t, "Sounds good, let's start")
	if state.Status != types.StatusActive || state.PageIndex != 1 {
		t.Fatalf("expected About You, got %+v", state)
	}
	if !strings.Contains(reply, "Step 2 of 14 (Context): About You") {
		t.Errorf("unexpected page header:\n%s", reply)
	}

	steps := []struct {
		input string
		page  int
	}{
		{"Age: 29\nSex Assigned at Birth: 2\nHeight: 170cm\nWeight: 60kg", 1},
		{"next", 2},
		{"Country: South Africa; City: Johannesburg", 2},
		{"next", 3},
		{"Cultural Background: 5", 3},
		{"Custom Cultural Background: Zulu home cooking", 3},
		{"next", 4},
		{"Do you have any medical conditions?: yes", 4},
		{"Insulin Resistance, High Cholesterol", 4},
		{"next", 5},
		{"Medications Status: yes", 5},
		{"List Your Medications: Metformin", 5},
		{"next", 6},
		{"next", 7},
		{"next", 8},
		{"1", 8},
		{"next", 9},
		{"4", 9},
		{"next", 10},
		{"Checkers", 10},
		{"next", 11},
		{"not sure", 11},
		{"next", 12},
		{"next", 13},
	}
	for _, step := range steps {
		reply, state = session.Say(t, step.input)
		if state.PageIndex != step.page || state.Status != types.StatusActive {
			t.Fatalf("after %q expected page %d, got %+v\n%s", step.input, step.page, state, reply)
		}
	}
	if !strings.Contains(reply, `"next" to finish`) {
		t.Errorf("last page should offer to finish:\n%s", reply)
	}

	reply, state = session.Say(t, "Build My Plan")
	if state.Status != types.StatusCompleted {
		t.Fatalf("expected completed, got %s:\n%s", state.Status, reply)
	}
	t.Logf("completed: %s", reply)

	if len(manager.Submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(manager.Submitted))
	}
	got := manager.Submitted[0]
	want := map[string]string{
		"Sex Assigned at Birth":                  "Female",
		onboarding.LabelCustomCulturalBackground: "Zulu home cooking",
		"Insulin Resistance":                     "true",
		"Hypothyroidism":                         "false",
		onboarding.LabelMedicationList:           "Metformin",
		"Primary Goal":                           "Lose weight safely",
		"Cooking Time Preference":                "Microwave only life",
		"Checkers":                               "true",
		"Budget Range":                           "Not sure",
	}
	for label, value := range want {
		if got.Get(label).String() != value {
			t.Errorf("%s = %q, want %q", label, got.Get(label).String(), value)
		}
	}
	if got.Get(onboarding.CompletedAtKey).IsBlank() {
		t.Error("completion should be stamped")
	}
}
