package command

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/structured"
	"github.com/tbxark/formstepper/types"
)

const (
	parseCommandToolName        = "parse_command_intent"
	parseCommandToolDescription = "Analyze user input and determine the questionnaire command: start, help, next, back, cancel, edit, do_nothing."
)

// DefaultParseCommandSystemPromptTemplate may contain a single "%s"
// placeholder for the tool name.
const DefaultParseCommandSystemPromptTemplate = `You help a questionnaire robot understand what the user wants to do.

Combine the assistant's latest question with the user's answer to decide the intent. Context is key; do not judge isolated words.

Choose one intent:
- start: the questionnaire has not started (status welcome) and the user agrees to begin.
- help: the user asks what the assistant can do or how the questionnaire works.
- next: the user wants to move to the next page, or to complete the questionnaire on the last page, without giving new answers.
- back: the user wants to return to the previous page.
- cancel: the user explicitly abandons the questionnaire ("not now", "quit", "stop").
- edit: the user provides or changes answers for the current page.
- do_nothing: chatter unrelated to the questionnaire.

Call the '%s' tool with the result.`

type parseCommandInput struct {
	Intent Command `json:"intent" jsonschema:"required,enum=start,enum=help,enum=next,enum=back,enum=cancel,enum=edit,enum=do_nothing,description=The user's command intent"`
}

type ToolBasedCommandParser struct {
	chain *structured.Chain[*types.ToolRequest, parseCommandInput]
}

func NewToolBasedCommandParser(chatModel model.ToolCallingChatModel) (*ToolBasedCommandParser, error) {
	chain, err := structured.NewChain[*types.ToolRequest, parseCommandInput](
		chatModel,
		buildParseCommandPrompt,
		parseCommandToolName,
		parseCommandToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedCommandParser{chain: chain}, nil
}

func (p *ToolBasedCommandParser) ParseCommand(ctx context.Context, req *types.ToolRequest) (Command, error) {
	result, err := p.chain.Invoke(ctx, req)
	if err != nil {
		return DoNothing, err
	}
	if result == nil || result.Intent == "" {
		return DoNothing, fmt.Errorf("empty intent returned by %s", parseCommandToolName)
	}
	return result.Intent, nil
}

func buildParseCommandPrompt(ctx context.Context, req *types.ToolRequest) ([]*schema.Message, error) {
	message, err := types.FormatToolRequest(req)
	if err != nil {
		return nil, fmt.Errorf("convert to prompt message failed: %w", err)
	}
	return []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(DefaultParseCommandSystemPromptTemplate, parseCommandToolName)),
		schema.UserMessage(message),
	}, nil
}
