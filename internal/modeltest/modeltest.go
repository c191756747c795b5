// Package modeltest provides a scripted tool-calling chat model for tests.
package modeltest

import (
	"context"
	"errors"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var ErrExhausted = errors.New("modeltest: no scripted response left")

// ChatModel replays Responses in order and records every call.
type ChatModel struct {
	mu        sync.Mutex
	Responses []*schema.Message
	Err       error
	Calls     [][]*schema.Message
	Tools     [][]*schema.ToolInfo
}

var _ model.ToolCallingChatModel = (*ChatModel)(nil)

func New(responses ...*schema.Message) *ChatModel {
	return &ChatModel{Responses: responses}
}

// Failing returns a model whose every call fails with err.
func Failing(err error) *ChatModel {
	return &ChatModel{Err: err}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	options := model.GetCommonOptions(&model.Options{}, opts...)
	m.Calls = append(m.Calls, input)
	m.Tools = append(m.Tools, options.Tools)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return nil, ErrExhausted
	}
	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return resp, nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func (m *ChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// ToolCall builds an assistant message calling name with args encoded as
// JSON.
func ToolCall(name string, args any) *schema.Message {
	data, err := sonic.MarshalString(args)
	if err != nil {
		panic(err)
	}
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{
				ID:   "call_0",
				Type: "function",
				Function: schema.FunctionCall{
					Name:      name,
					Arguments: data,
				},
			},
		},
	}
}

// Text builds a plain assistant message.
func Text(content string) *schema.Message {
	return schema.AssistantMessage(content, nil)
}
