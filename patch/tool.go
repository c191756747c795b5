package patch

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/structured"
	"github.com/tbxark/formstepper/types"
)

const (
	updateAnswersToolName        = "update_answers"
	updateAnswersToolDescription = "Generate RFC6902 JSON Patch operations that record the user's answers for the current questionnaire page. Only include answers the user explicitly gave."
)

// ToolBasedPatchGenerator extracts answers for the current page from free
// text with a tool-calling chat model.
type ToolBasedPatchGenerator struct {
	chain *structured.Chain[*types.ToolRequest, UpdateFormArgs]
}

func NewToolBasedPatchGenerator(chatModel model.ToolCallingChatModel) (*ToolBasedPatchGenerator, error) {
	chain, err := structured.NewChain[*types.ToolRequest, UpdateFormArgs](
		chatModel,
		buildPatchPrompt,
		updateAnswersToolName,
		updateAnswersToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedPatchGenerator{chain: chain}, nil
}

func (g *ToolBasedPatchGenerator) GeneratePatch(ctx context.Context, req *types.ToolRequest) (*UpdateFormArgs, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	if result == nil {
		return &UpdateFormArgs{}, nil
	}
	if err := ValidatePatchOperations(result.Ops, AllowedPaths(req.Page)); err != nil {
		return nil, fmt.Errorf("generated patches failed validation: %w", err)
	}
	if err := CheckValues(req.Page, result.Ops); err != nil {
		return nil, fmt.Errorf("generated patches failed validation: %w", err)
	}
	return result, nil
}

func buildPatchPrompt(ctx context.Context, req *types.ToolRequest) ([]*schema.Message, error) {
	message, err := types.FormatToolRequest(req)
	if err != nil {
		return nil, fmt.Errorf("convert to prompt message failed: %w", err)
	}
	systemPrompt := fmt.Sprintf(`You record answers for a multi-page questionnaire. Analyze the user's latest answer and call %s with RFC6902 JSON Patch operations on the answers object.
Rules:
- Only use information the user explicitly gave.
- Every value is a string. Checkbox and switch answers are "true" or "false".
- Radio and select answers must be one of the listed options, copied exactly.
- Only touch these paths:
%s
- If nothing can be extracted, return an empty list of operations.`, updateAnswersToolName, formatAllowedPaths(AllowedPaths(req.Page)))

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(message),
	}, nil
}
