package command

import (
	"context"
	"strings"

	"github.com/tbxark/formstepper/types"
)

// LocalCommandParser matches the whole answer against keyword lists. While a
// questionnaire is active any other non-empty input is treated as an edit.
type LocalCommandParser struct {
	StartKeywords  []string
	HelpKeywords   []string
	NextKeywords   []string
	BackKeywords   []string
	CancelKeywords []string
}

func NewLocalCommandParser() *LocalCommandParser {
	return &LocalCommandParser{
		StartKeywords:  []string{"start", "begin", "sounds good", "sounds good, let's start", "let's start", "yes"},
		HelpKeywords:   []string{"help", "what can you help with?", "what can you help with", "?"},
		NextKeywords:   []string{"next", "continue", "n", "complete", "done", "submit", "confirm", "build my plan"},
		BackKeywords:   []string{"back", "previous", "prev", "b"},
		CancelKeywords: []string{"cancel", "quit", "exit", "stop", "not now"},
	}
}

func (p *LocalCommandParser) ParseCommand(ctx context.Context, req *types.ToolRequest) (Command, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.MessagePair.Answer))
	if normalized == "" {
		return DoNothing, nil
	}
	if matchKeyword(normalized, p.CancelKeywords) {
		return Cancel, nil
	}
	if req.Status == types.StatusWelcome {
		switch {
		case matchKeyword(normalized, p.StartKeywords):
			return Start, nil
		case matchKeyword(normalized, p.HelpKeywords):
			return Help, nil
		default:
			return DoNothing, nil
		}
	}
	switch {
	case matchKeyword(normalized, p.NextKeywords):
		return Next, nil
	case matchKeyword(normalized, p.BackKeywords):
		return Back, nil
	case matchKeyword(normalized, p.HelpKeywords):
		return Help, nil
	}
	if req.Status == types.StatusActive {
		return Edit, nil
	}
	return DoNothing, nil
}

func matchKeyword(normalized string, keywords []string) bool {
	for _, keyword := range keywords {
		if normalized == keyword {
			return true
		}
	}
	return false
}

// FailbackCommandParser asks each parser in turn and returns the first
// successful result.
type FailbackCommandParser struct {
	parsers []Parser
}

func NewFailbackCommandParser(parsers ...Parser) *FailbackCommandParser {
	return &FailbackCommandParser{parsers: parsers}
}

func (p *FailbackCommandParser) ParseCommand(ctx context.Context, req *types.ToolRequest) (Command, error) {
	var lastErr error
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, req)
		if err == nil {
			return cmd, nil
		}
		lastErr = err
	}
	return DoNothing, lastErr
}
