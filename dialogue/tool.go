package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/types"
)

// ErrEmptyReply is returned when the model answers with nothing to show.
var ErrEmptyReply = errors.New("model returned an empty reply")

// DefaultDialogueSystemPromptTemplate is the system prompt of
// ToolBasedDialogueGenerator. A single "%s" is replaced with the language.
const DefaultDialogueSystemPromptTemplate = `You are a friendly onboarding assistant walking the user through a multi-page questionnaire, one page at a time.

Respond as if chatting with a friend:
- Status welcome: greet the user and offer to start, explain what you can help with, or let them leave.
- Status active: introduce the current page using its title and copy, and ask for its fields. Mention the options of choice fields.
- If required fields are missing, casually ask for them. Don't list all at once if there are many.
- If the outcome is "blocked", the user tried to move on too early; gently say what is still needed.
- If there is a notice, pass it on in your own words.
- If there are validation errors, say which answer was not accepted and what would work instead.
- Acknowledge what they've already answered to make them feel good.
- On the last page with everything filled in, ask whether they want to finish.
- Status completed: thank them and briefly summarize their answers. Status cancelled: say goodbye warmly.
- Quote option labels exactly as they appear in "Page as shown".
- Never invent answers or pages.
- Reply in %s.
`

type GeneratorOption func(*ToolBasedDialogueGenerator)

// WithDialogueLang sets the language of the default system prompt.
func WithDialogueLang(lang string) GeneratorOption {
	return func(g *ToolBasedDialogueGenerator) {
		if lang != "" {
			g.lang = lang
		}
	}
}

// WithDialogueSystemPrompt replaces the system prompt entirely.
func WithDialogueSystemPrompt(systemPrompt string) GeneratorOption {
	return func(g *ToolBasedDialogueGenerator) {
		g.systemPrompt = systemPrompt
	}
}

// WithDialogueSystemPromptTemplate replaces the template. If it contains
// "%s" it is formatted with the language.
func WithDialogueSystemPromptTemplate(systemPromptTemplate string) GeneratorOption {
	return func(g *ToolBasedDialogueGenerator) {
		g.template = systemPromptTemplate
	}
}

// ToolBasedDialogueGenerator phrases the assistant message with a chat model.
// The prompt carries the turn as structured sections plus the page rendered
// the way LocalDialogueGenerator would show it.
type ToolBasedDialogueGenerator struct {
	chatModel    model.ToolCallingChatModel
	lang         string
	template     string
	systemPrompt string
}

func NewToolBasedDialogueGenerator(chatModel model.ToolCallingChatModel, opts ...GeneratorOption) *ToolBasedDialogueGenerator {
	g := &ToolBasedDialogueGenerator{
		chatModel: chatModel,
		lang:      "English",
		template:  DefaultDialogueSystemPromptTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.systemPrompt == "" {
		g.systemPrompt = g.template
		if strings.Contains(g.template, "%s") {
			g.systemPrompt = fmt.Sprintf(g.template, g.lang)
		}
	}
	return g
}

func (g *ToolBasedDialogueGenerator) GenerateDialogue(ctx context.Context, req *types.ToolRequest) (string, error) {
	messages, err := g.prompt(req)
	if err != nil {
		return "", err
	}
	response, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

func (g *ToolBasedDialogueGenerator) GenerateDialogueStream(ctx context.Context, req *types.ToolRequest) (*schema.StreamReader[string], error) {
	messages, err := g.prompt(req)
	if err != nil {
		return nil, err
	}
	stream, err := g.chatModel.Stream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("LLM stream call failed: %w", err)
	}
	return schema.StreamReaderWithConvert(stream, func(message *schema.Message) (string, error) {
		return message.Content, nil
	}), nil
}

func (g *ToolBasedDialogueGenerator) prompt(req *types.ToolRequest) ([]*schema.Message, error) {
	message, err := types.FormatToolRequest(req)
	if err != nil {
		return nil, fmt.Errorf("build dialogue prompt: %w", err)
	}
	if req.Status == types.StatusActive && req.PageCount > 0 {
		message += "\n\n# Page as shown:\n" + formatPageSection(req)
	}
	return []*schema.Message{
		schema.SystemMessage(g.systemPrompt),
		schema.UserMessage(message),
	}, nil
}
