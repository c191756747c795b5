package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/agent"
	"github.com/tbxark/formstepper/onboarding"
)

// sessionTTL drops a half-finished questionnaire after a day of silence.
const sessionTTL = 24 * time.Hour

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	err = startApp(context.Background(), config)
	if err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func newFlow(ctx context.Context, config *Config) (*agent.StepperFlow, error) {
	spec := onboarding.AgentSpec()
	manager := agent.WithManager(&OnboardingManager{})
	if config.APIKey == "" {
		slog.Info("No api_key configured, running without a model")
		return agent.NewLocalStepperFlow(spec, manager)
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return agent.NewToolBasedStepperFlow(spec, cm, manager)
}

func startApp(ctx context.Context, config *Config) error {
	if config.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
	ctx = agent.WithStateKey(ctx, "onboarding")
	flow, err := newFlow(ctx, config)
	if err != nil {
		return err
	}
	spec := onboarding.AgentSpec()
	store := agent.NewStateStore(
		agent.NewMemoryCache(agent.WithTTL[[]byte](sessionTTL)),
		func(ctx context.Context) *agent.State {
			return spec.InitState()
		},
	)
	historyStore := agent.NewMemoryHistoryStore(agent.KeepSystemLastNTrimmer{N: 50})
	onboardingAgent := agent.NewAgent(
		"OnboardingStepper",
		"An agent that walks users through the diet onboarding questionnaire via conversation",
		flow,
		store,
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: onboardingAgent,
	})
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Say hi to get started:")
	for {
		fmt.Print("You: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("Input closed. Bye.")
			break
		}
		input = strings.TrimSpace(input)
		history, rErr := historyStore.Append(ctx, schema.UserMessage(input))
		if rErr != nil {
			return rErr
		}
		iter := runner.Run(ctx, history)
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			if _, apErr := historyStore.Append(ctx, msg); apErr != nil {
				return apErr
			}
			fmt.Printf("\nAssistant: %v\n======\n", msg.Content)
			state, mErr := store.Load(ctx)
			if mErr != nil {
				return mErr
			}
			if state.Status.Finished() {
				_ = historyStore.Clear(ctx)
				_ = store.Clear(ctx)
			}
		}
	}
	return nil
}
