package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

var ErrNoMessages = errors.New("no messages in input")

var _ adk.Agent = (*Agent)(nil)

// Agent exposes a StepperFlow as an adk.Agent. Each Run is one turn: the
// session snapshot is loaded from the store, advanced and written back.
type Agent struct {
	name        string
	description string
	flow        *StepperFlow
	store       StateReadWriter
}

func NewAgent(name, description string, flow *StepperFlow, store StateReadWriter) *Agent {
	return &Agent{
		name:        name,
		description: description,
		flow:        flow,
		store:       store,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if input == nil || len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{Err: ErrNoMessages})
			return
		}
		state, err := a.store.Load(ctx)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("load state failed: %w", err),
			})
			return
		}
		resp, err := a.flow.Invoke(ctx, &Request{
			UserInput:   input.Messages[len(input.Messages)-1].Content,
			State:       state,
			ChatHistory: input.Messages[:len(input.Messages)-1],
		})
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("flow invoke failed: %w", err),
			})
			return
		}
		if err := a.store.Save(ctx, resp.State); err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("save state failed: %w", err),
			})
			return
		}
		msg := &schema.Message{
			Role:    schema.Assistant,
			Content: resp.Message,
		}
		if len(resp.Metadata) > 0 {
			msg.Extra = make(map[string]any, len(resp.Metadata))
			for k, v := range resp.Metadata {
				msg.Extra[k] = v
			}
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message:     msg,
					Role:        schema.Assistant,
				},
			},
		})
	}()
	return iter
}
