package testcases

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/agent"
)

type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	err = sonic.Unmarshal(file, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

func InitChatModel(t *testing.T) *openai.ChatModel {
	if os.Getenv("FORMSTEPPER_RUN_LIVE_TESTS") != "1" {
		t.Skip("set FORMSTEPPER_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}

	ctx := context.Background()
	conf, err := loadConfig("../config.json")
	if err != nil {
		t.Skipf("failed to load config: %v", err)
		return nil
	}
	if conf.APIKey == "" {
		t.Skip("config.json api_key is empty")
		return nil
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Model,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL:%q, Model:%q}", c.BaseURL, c.Model)
}

// Session drives one conversation through an adk.Runner the way the example
// CLI does: history is appended around every turn and the stepper snapshot
// lives in the state store.
type Session struct {
	ctx     context.Context
	runner  *adk.Runner
	store   *agent.StateStore
	history *agent.HistoryStore
}

func NewSession(t *testing.T, spec *agent.Spec, flow *agent.StepperFlow) *Session {
	t.Helper()
	ctx := agent.WithStateKey(context.Background(), t.Name())
	store := agent.NewMemoryStateStore(func(ctx context.Context) *agent.State {
		return spec.InitState()
	})
	a := agent.NewAgent(spec.Title, "test questionnaire agent", flow, store)
	return &Session{
		ctx:     ctx,
		runner:  adk.NewRunner(ctx, adk.RunnerConfig{Agent: a}),
		store:   store,
		history: agent.NewMemoryHistoryStore(agent.KeepSystemLastNTrimmer{N: 6}),
	}
}

// NewLocalSession runs spec without a model.
func NewLocalSession(t *testing.T, spec *agent.Spec, opts ...agent.FlowOption) *Session {
	t.Helper()
	flow, err := agent.NewLocalStepperFlow(spec, opts...)
	if err != nil {
		t.Fatalf("failed to create flow: %v", err)
	}
	return NewSession(t, spec, flow)
}

// NewLiveSession runs spec against the configured model. It skips unless
// live tests are enabled.
func NewLiveSession(t *testing.T, spec *agent.Spec, opts ...agent.FlowOption) *Session {
	t.Helper()
	chatModel := InitChatModel(t)
	flow, err := agent.NewToolBasedStepperFlow(spec, chatModel, opts...)
	if err != nil {
		t.Fatalf("failed to create flow: %v", err)
	}
	return NewSession(t, spec, flow)
}

// Say sends one user message and returns the assistant reply with the
// snapshot saved after the turn.
func (s *Session) Say(t *testing.T, input string) (string, *agent.State) {
	t.Helper()
	history, err := s.history.Append(s.ctx, schema.UserMessage(input))
	if err != nil {
		t.Fatalf("append history: %v", err)
	}
	var reply *schema.Message
	iter := s.runner.Run(s.ctx, history)
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		if event.Err != nil {
			t.Fatalf("turn %q failed: %v", input, event.Err)
		}
		msg, err := event.Output.MessageOutput.GetMessage()
		if err != nil {
			t.Fatalf("read message: %v", err)
		}
		reply = msg
	}
	if reply == nil {
		t.Fatalf("turn %q produced no message", input)
	}
	if _, err := s.history.Append(s.ctx, reply); err != nil {
		t.Fatalf("append history: %v", err)
	}
	return reply.Content, s.State(t)
}

func (s *Session) State(t *testing.T) *agent.State {
	t.Helper()
	state, err := s.store.Load(s.ctx)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return state
}

// Resume replaces the stored snapshot before the next turn.
func (s *Session) Resume(t *testing.T, state *agent.State) {
	t.Helper()
	if err := s.store.Save(s.ctx, state); err != nil {
		t.Fatalf("save state: %v", err)
	}
}

func (s *Session) History(t *testing.T) []*schema.Message {
	t.Helper()
	history, err := s.history.Load(s.ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	return history
}
