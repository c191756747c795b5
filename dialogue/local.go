package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/types"
)

const (
	DefaultWelcomeMessage   = "Hey there 👋 I'm here to help you build a diet that actually fits your life, your health, and your taste.\nReply \"start\" to begin, \"help\" to learn more, or \"not now\" to leave."
	DefaultCancelledMessage = "No problem. Come back whenever you're ready."
	DefaultCompletedMessage = "All done, thanks! Here is what you told me:"
)

// LocalDialogueGenerator renders the current page as plain text without a
// model.
type LocalDialogueGenerator struct {
	Welcome   string
	Cancelled string
	Completed string
}

func (g *LocalDialogueGenerator) GenerateDialogue(ctx context.Context, req *types.ToolRequest) (string, error) {
	var sections []string
	if req.Notice != "" {
		sections = append(sections, req.Notice)
	}
	if s := formatValidationErrorsSection(req.ValidationErrors); s != "" {
		sections = append(sections, s)
	}
	switch req.Status {
	case types.StatusWelcome:
		sections = append(sections, orDefault(g.Welcome, DefaultWelcomeMessage))
	case types.StatusCancelled:
		sections = append(sections, orDefault(g.Cancelled, DefaultCancelledMessage))
	case types.StatusCompleted:
		sections = append(sections, orDefault(g.Completed, DefaultCompletedMessage), types.FormatAnswers(req.Answers))
	case types.StatusActive:
		if req.PageCount == 0 {
			sections = append(sections, "There is nothing to fill in.")
			break
		}
		sections = append(sections, formatPageSection(req))
		if s := formatMissingFieldsSection(req.MissingFields); s != "" {
			sections = append(sections, s)
		}
		sections = append(sections, formatHintSection(req))
	default:
		return "", fmt.Errorf("unknown status %q", req.Status)
	}
	return strings.Join(sections, "\n\n"), nil
}

func (g *LocalDialogueGenerator) GenerateDialogueStream(ctx context.Context, req *types.ToolRequest) (*schema.StreamReader[string], error) {
	message, err := g.GenerateDialogue(ctx, req)
	if err != nil {
		return nil, err
	}
	stream := schema.StreamReaderFromArray([]string{message})
	return stream, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type FailbackDialogueGenerator struct {
	generators []Generator
}

func NewFailbackDialogueGenerator(generators ...Generator) *FailbackDialogueGenerator {
	return &FailbackDialogueGenerator{generators: generators}
}

func (g *FailbackDialogueGenerator) GenerateDialogue(ctx context.Context, req *types.ToolRequest) (string, error) {
	var lastErr error
	for _, generator := range g.generators {
		plan, err := generator.GenerateDialogue(ctx, req)
		if err == nil {
			return plan, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all dialogue generators failed: %w", lastErr)
}

func (g *FailbackDialogueGenerator) GenerateDialogueStream(ctx context.Context, req *types.ToolRequest) (*schema.StreamReader[string], error) {
	var lastErr error
	for _, generator := range g.generators {
		stream, err := generator.GenerateDialogueStream(ctx, req)
		if err == nil {
			return stream, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all dialogue generators failed: %w", lastErr)
}
