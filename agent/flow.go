package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/formstepper/command"
	"github.com/tbxark/formstepper/conditional"
	"github.com/tbxark/formstepper/dialogue"
	"github.com/tbxark/formstepper/patch"
	"github.com/tbxark/formstepper/stepper"
	"github.com/tbxark/formstepper/types"
)

// StepperFlow runs one conversational turn over a questionnaire: it parses
// the user's command, edits or moves the stepper, and asks the dialogue
// generator for the next assistant message.
type StepperFlow struct {
	schema            string
	spec              *Spec
	manager           Manager
	patchGenerator    patch.Generator
	dialogueGenerator dialogue.Generator
	commandParser     command.Parser
}

type FlowOption func(*StepperFlow)

func WithManager(m Manager) FlowOption {
	return func(f *StepperFlow) {
		f.manager = m
	}
}

func NewStepperFlow(
	spec *Spec,
	patchGen patch.Generator,
	dialogGen dialogue.Generator,
	commandParser command.Parser,
	opts ...FlowOption,
) (*StepperFlow, error) {
	res, err := conditional.Resolve(spec.sources(), nil, types.Answers{})
	if err != nil {
		return nil, err
	}
	schema, err := types.AnswerSchema(spec.Title, res.All)
	if err != nil {
		return nil, err
	}
	flow := &StepperFlow{
		schema:            schema,
		spec:              spec,
		patchGenerator:    patchGen,
		dialogueGenerator: dialogGen,
		commandParser:     commandParser,
	}
	for _, opt := range opts {
		opt(flow)
	}
	return flow, nil
}

// NewLocalStepperFlow works without a model: keyword commands, rule based
// answer extraction and plain text pages.
func NewLocalStepperFlow(spec *Spec, opts ...FlowOption) (*StepperFlow, error) {
	return NewStepperFlow(
		spec,
		patch.NewLocalPatchGenerator(),
		&dialogue.LocalDialogueGenerator{},
		command.NewLocalCommandParser(),
		opts...,
	)
}

// NewToolBasedStepperFlow uses chatModel first and falls back to the local
// components when a model call fails.
func NewToolBasedStepperFlow(
	spec *Spec,
	chatModel model.ToolCallingChatModel,
	opts ...FlowOption,
) (*StepperFlow, error) {
	parser, err := command.NewToolBasedCommandParser(chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool-based command parser: %w", err)
	}
	patchGen, err := patch.NewToolBasedPatchGenerator(chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool-based patch generator: %w", err)
	}
	dialogueGen := dialogue.NewToolBasedDialogueGenerator(chatModel)
	return NewStepperFlow(
		spec,
		patch.NewFailbackPatchGenerator(patchGen, patch.NewLocalPatchGenerator()),
		dialogue.NewFailbackDialogueGenerator(dialogueGen, &dialogue.LocalDialogueGenerator{}),
		command.NewFailbackCommandParser(parser, command.NewLocalCommandParser()),
		opts...,
	)
}

func (a *StepperFlow) Invoke(ctx context.Context, input *Request) (*Response, error) {
	if input.State == nil {
		input.State = a.spec.InitState()
	}
	if input.State.Status == "" {
		input.State.Status = types.StatusWelcome
	}
	if input.State.LatestQuestion == "" {
		input.State.LatestQuestion = lastAssistantContent(input.ChatHistory)
	}
	ctx = callbacks.EnsureRunInfo(ctx, "StepperFlow", "Agent")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"input":  input.UserInput,
		"status": string(input.State.Status),
		"page":   input.State.PageIndex,
	})
	response, err := a.runInternal(ctx, input)
	if err != nil {
		callbacks.OnError(ctx, err)
		return nil, err
	}
	callbacks.OnEnd(ctx, map[string]any{
		"status": string(response.State.Status),
		"page":   response.State.PageIndex,
	})
	return response, nil
}

type turn struct {
	state     *State
	stepper   *conditional.Stepper
	completed types.Answers
}

func (a *StepperFlow) runInternal(ctx context.Context, input *Request) (*Response, error) {
	t := &turn{state: input.State}
	s, err := a.spec.newStepper(t.state, func(answers types.Answers) {
		t.completed = answers
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build stepper: %w", err)
	}
	t.stepper = s
	toolRequest := a.buildToolRequest(t, input.UserInput)

	// command
	slog.Debug("Parsing command", "status", toolRequest.Status, "page", toolRequest.PageIndex)
	cmd, err := a.commandParser.ParseCommand(ctx, toolRequest)
	if err != nil {
		return a.handleError(fmt.Errorf("failed to parse command: %w", err), input)
	}
	slog.Debug("Parsed command", "command", cmd, "input", input.UserInput)
	toolRequest.Command = string(cmd)

	metadata := map[string]string{}
	outcome, notice, err := a.handleCommand(ctx, cmd, t, toolRequest)
	if err != nil {
		return a.handleError(err, input)
	}
	if notice.err != nil {
		metadata["error"] = notice.err.Error()
	}

	// dialogue
	next := a.buildToolRequest(t, input.UserInput)
	next.Command = string(cmd)
	next.Outcome = outcome
	next.Notice = notice.text
	next.ValidationErrors = notice.invalid
	slog.Debug("Generating dialogue", "status", next.Status, "outcome", outcome)
	question, err := a.dialogueGenerator.GenerateDialogue(ctx, next)
	if err != nil {
		return a.handleError(fmt.Errorf("failed to generate dialogue: %w", err), input)
	}
	t.state.LatestQuestion = question
	slog.Debug("Generated dialogue", "question", question)

	if len(metadata) == 0 {
		metadata = nil
	}
	return &Response{
		Message:  question,
		State:    t.state,
		Metadata: metadata,
	}, nil
}

type notice struct {
	text    string
	err     error
	invalid []types.FieldInfo
}

func (a *StepperFlow) handleCommand(ctx context.Context, cmd command.Command, t *turn, req *types.ToolRequest) (string, notice, error) {
	state := t.state
	if state.Status.Finished() {
		return "", notice{}, nil
	}
	switch cmd {
	case command.Start:
		if state.Status == types.StatusWelcome {
			state.Status = types.StatusActive
			state.PageIndex = a.spec.StartPage
			s, err := a.spec.newStepper(state, func(answers types.Answers) {
				t.completed = answers
			})
			if err != nil {
				return "", notice{}, fmt.Errorf("failed to build stepper: %w", err)
			}
			t.stepper = s
			a.syncState(t)
			return "started", notice{}, nil
		}
	case command.Help:
		return "", notice{text: a.spec.HelpText}, nil
	case command.Cancel:
		if a.manager != nil {
			if err := a.manager.Cancel(ctx, t.stepper.Answers()); err != nil {
				return "", notice{}, fmt.Errorf("failed to cancel: %w", err)
			}
		}
		state.Status = types.StatusCancelled
		return "cancelled", notice{}, nil
	}
	if state.Status != types.StatusActive {
		return "", notice{}, nil
	}

	switch cmd {
	case command.Edit:
		req.StateSchema = a.schema
		slog.Debug("Requesting patch generation")
		args, err := a.patchGenerator.GeneratePatch(ctx, req)
		if err != nil {
			slog.Debug("Patch generation failed", "error", err)
			if invalid := patch.FieldErrors(err); len(invalid) > 0 {
				return "unchanged", notice{
					text:    "Sorry, I couldn't use that answer.",
					err:     err,
					invalid: invalid,
				}, nil
			}
			return "unchanged", notice{
				text: fmt.Sprintf("Sorry, I couldn't use that answer: %s", err),
				err:  err,
			}, nil
		}
		slog.Debug("Applying patch", "ops", args.Ops)
		before := t.stepper.Answers()
		if err := t.stepper.ApplyPatch(args.Ops); err != nil {
			return "", notice{}, fmt.Errorf("failed to apply patch: %w", err)
		}
		slog.Debug("Applied patch", "changes", patch.Diff(before, t.stepper.Answers()))
		a.syncState(t)
		return "updated", notice{}, nil
	case command.Next:
		out, err := t.stepper.Next()
		if err != nil {
			return "", notice{}, fmt.Errorf("failed to move forward: %w", err)
		}
		if out == stepper.OutcomeCompleted {
			if a.manager != nil {
				if err := a.manager.Submit(ctx, t.completed.Clone()); err != nil {
					return "", notice{}, fmt.Errorf("failed to submit: %w", err)
				}
			}
			state.Status = types.StatusCompleted
			slog.Info("Questionnaire completed", "answers", len(t.completed))
		}
		a.syncState(t)
		return out.String(), notice{}, nil
	case command.Back:
		// pages before StartPage belong to the welcome screen
		if t.stepper.Index() <= a.spec.StartPage {
			return stepper.OutcomeNoop.String(), notice{}, nil
		}
		out, err := t.stepper.Previous()
		if err != nil {
			return "", notice{}, fmt.Errorf("failed to move back: %w", err)
		}
		a.syncState(t)
		return out.String(), notice{}, nil
	}
	return "", notice{}, nil
}

// syncState copies the stepper position back into the snapshot. After
// completion the running answers include the transform's additions.
func (a *StepperFlow) syncState(t *turn) {
	t.state.PageIndex = t.stepper.Index()
	t.state.Answers = t.stepper.Running()
}

func (a *StepperFlow) buildToolRequest(t *turn, userInput string) *types.ToolRequest {
	req := &types.ToolRequest{
		Status:  t.state.Status,
		Answers: t.stepper.Running(),
		MessagePair: types.MessagePair{
			Question: t.state.LatestQuestion,
			Answer:   userInput,
		},
	}
	if t.state.Status != types.StatusActive {
		return req
	}
	req.PageIndex = t.stepper.Index()
	req.PageCount = t.stepper.PageCount()
	req.Valid = t.stepper.Valid()
	if page, ok := t.stepper.Page(); ok {
		req.Page = page
		req.Phase = a.spec.phaseOf(page, req.PageIndex)
		req.MissingFields = t.stepper.MissingFields()
	}
	return req
}

func (a *StepperFlow) handleError(err error, input *Request) (*Response, error) {
	message := fmt.Sprintf("Sorry, something went wrong while handling your answer: %s", err.Error())

	return &Response{
		Message: message,
		State:   input.State,
		Metadata: map[string]string{
			"error": err.Error(),
		},
	}, nil
}
