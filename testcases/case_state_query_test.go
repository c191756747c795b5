package testcases

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/types"
)

// TestStateQuery inspects the stored snapshot and history between turns.
func TestStateQuery(t *testing.T) {
	t.Parallel()
	session := NewLocalSession(t, RegistrationSpec())

	state := session.State(t)
	if state.Status != types.StatusActive || state.PageIndex != 0 || len(state.Answers) != 0 {
		t.Fatalf("unexpected initial snapshot %+v", state)
	}

	reply, state := session.Say(t, "Name: Linus")
	if state.Answers.Get("Name").String() != "Linus" {
		t.Errorf("expected Name to be stored, got %v", state.Answers.Strings())
	}
	if state.LatestQuestion != reply {
		t.Error("the snapshot should remember the last assistant message")
	}
	if state.Answers.Get("Newsletter").String() != "false" {
		t.Errorf("defaults of every page are seeded, got %v", state.Answers.Strings())
	}

	session.Say(t, "Email: linus@example.com")
	session.Say(t, "next")
	reply, _ = session.Say(t, "Age: 55")

	history := session.History(t)
	if len(history) != 6 {
		t.Fatalf("history should be trimmed to 6 messages, got %d", len(history))
	}
	last := history[len(history)-1]
	if last.Role != schema.Assistant || last.Content != reply {
		t.Errorf("last history entry should be the reply, got %+v", last)
	}
	if history[0].Role != schema.User || history[0].Content != "Email: linus@example.com" {
		t.Errorf("oldest kept entry should be the second answer, got %+v", history[0])
	}
}
