package agent

import (
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/types"
)

// State is the per-session snapshot kept between turns. The stepper itself is
// rebuilt from it on every turn.
type State struct {
	Status         types.Status  `json:"status"`
	PageIndex      int           `json:"page_index"`
	Answers        types.Answers `json:"answers"`
	LatestQuestion string        `json:"latest_question,omitempty"`
}

type Request struct {
	UserInput   string            `json:"user_input"`
	State       *State            `json:"state"`
	ChatHistory []*schema.Message `json:"chat_history,omitempty"`
}

type Response struct {
	Message  string            `json:"message,omitempty"`
	State    *State            `json:"state,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
