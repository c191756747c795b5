package structured

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/internal/modeltest"
)

type reviewInput struct {
	Text string
}

type reviewOutput struct {
	Title  string `json:"title" jsonschema:"required,description=Movie title"`
	Rating int    `json:"rating" jsonschema:"required,minimum=1,maximum=10,description=Rating from 1 to 10"`
}

func buildReviewPrompt(ctx context.Context, input reviewInput) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.SystemMessage("Extract the reviewed movie and a rating by calling analyze_review."),
		schema.UserMessage(input.Text),
	}, nil
}

func TestDecodeToolCall(t *testing.T) {
	t.Parallel()
	msg := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{Function: schema.FunctionCall{Name: "other", Arguments: `{"title":"wrong","rating":1}`}},
			{Function: schema.FunctionCall{Name: "analyze_review", Arguments: `{"title":"Alien","rating":9}`}},
		},
	}
	out, err := DecodeToolCall[reviewOutput](msg, "analyze_review")
	if err != nil {
		t.Fatalf("DecodeToolCall: %v", err)
	}
	if out.Title != "Alien" || out.Rating != 9 {
		t.Errorf("decoded the wrong call: %+v", out)
	}
}

// TestDecodeToolCallFallsBackToFirstCall accepts a renamed single call.
func TestDecodeToolCallFallsBackToFirstCall(t *testing.T) {
	t.Parallel()
	msg := modeltest.ToolCall("renamed", reviewOutput{Title: "Heat", Rating: 8})
	out, err := DecodeToolCall[reviewOutput](msg, "analyze_review")
	if err != nil {
		t.Fatalf("DecodeToolCall: %v", err)
	}
	if out.Title != "Heat" {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestDecodeToolCallErrors(t *testing.T) {
	t.Parallel()
	if _, err := DecodeToolCall[reviewOutput](nil, "x"); err == nil {
		t.Error("nil message should fail")
	}
	if _, err := DecodeToolCall[reviewOutput](modeltest.Text("just text"), "x"); err == nil {
		t.Error("message without tool calls should fail")
	}
	bad := &schema.Message{ToolCalls: []schema.ToolCall{{Function: schema.FunctionCall{Name: "x", Arguments: "{"}}}}
	if _, err := DecodeToolCall[reviewOutput](bad, "x"); err == nil {
		t.Error("broken JSON should fail")
	}
}

func TestChainInvoke(t *testing.T) {
	t.Parallel()
	cm := modeltest.New(modeltest.ToolCall("analyze_review", reviewOutput{Title: "Alien", Rating: 9}))
	chain, err := NewChain[reviewInput, reviewOutput](cm, buildReviewPrompt, "analyze_review", "Analyze a movie review")
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if chain.GetToolInfo().Name != "analyze_review" {
		t.Errorf("unexpected tool info: %+v", chain.GetToolInfo())
	}
	out, err := chain.Invoke(context.Background(), reviewInput{Text: "Alien is a masterpiece"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Rating != 9 {
		t.Errorf("unexpected output: %+v", out)
	}
	if len(cm.Tools) != 1 || len(cm.Tools[0]) != 1 {
		t.Errorf("the chain should pass exactly one tool, got %+v", cm.Tools)
	}
}

func TestChainInvokeModelError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	chain, err := NewChain[reviewInput, reviewOutput](modeltest.Failing(boom), buildReviewPrompt, "analyze_review", "Analyze a movie review")
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	if _, err := chain.Invoke(context.Background(), reviewInput{}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}

func TestChainInvokeLive(t *testing.T) {
	if os.Getenv("FORMSTEPPER_RUN_LIVE_TESTS") != "1" {
		t.Skip("set FORMSTEPPER_RUN_LIVE_TESTS=1 to run live LLM tests")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY is not set")
	}
	modelName := os.Getenv("OPENAI_MODEL")
	if modelName == "" {
		modelName = "gpt-4o"
	}
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	ctx := context.Background()
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: baseURL,
	})
	if err != nil {
		t.Fatalf("create chat model: %v", err)
	}
	chain, err := NewChain[reviewInput, reviewOutput](chatModel, buildReviewPrompt, "analyze_review", "Analyze a movie review")
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	out, err := chain.Invoke(ctx, reviewInput{Text: "Saw Alien again last night. Still a 10 out of 10 for me."})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Rating < 1 || out.Rating > 10 {
		t.Errorf("rating out of range: %+v", out)
	}
	t.Logf("result: %+v", out)
}
