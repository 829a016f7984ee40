package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/leofalp/agentils/core/credential"
	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/tool"
)

// TestCreateChatSession verifies the forwarded config and turn handling.
func TestCreateChatSession(t *testing.T) {
	t.Setenv(testKeyEnv, "k")
	client := &fakeClient{}
	factory, _ := countingFactory(client, nil)
	weather := tool.Declare("get_weather", "")

	session, err := CreateChatSession(context.Background(), withKey(), WithClientFactory(factory),
		WithModel("gemini-chat"), WithSystemInstruction("You are a travel agent."), WithTools(weather),
		WithTemperature(0.9), WithOutput(ai.OutputText))
	if err != nil {
		t.Fatalf("CreateChatSession() error = %v", err)
	}

	cfg := client.configs[0]
	if client.models[0] != "gemini-chat" || cfg.SystemInstruction != "You are a travel agent." || len(cfg.Tools) != 1 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Temperature != nil || cfg.Output != "" {
		t.Errorf("config = %+v, want only system instruction and tools", cfg)
	}

	resp, err := session.SendMessage(context.Background(), "Hello")
	if err != nil || resp.Text != "echo: Hello" {
		t.Fatalf("SendMessage() = %+v, %v", resp, err)
	}
	if got := len(session.History()); got != 2 {
		t.Errorf("History() has %d turns, want 2", got)
	}
}

// TestCreateChatSessionNoConfig verifies a nil config for a bare session.
func TestCreateChatSessionNoConfig(t *testing.T) {
	t.Setenv(testKeyEnv, "k")
	client := &fakeClient{}
	factory, _ := countingFactory(client, nil)

	if _, err := CreateChatSession(context.Background(), withKey(), WithClientFactory(factory)); err != nil {
		t.Fatalf("CreateChatSession() error = %v", err)
	}
	if client.configs[0] != nil {
		t.Errorf("config = %+v, want nil", client.configs[0])
	}
}

// TestCreateChatSessionErrors verifies credential and backend failures.
func TestCreateChatSessionErrors(t *testing.T) {
	t.Setenv(testKeyEnv, "")
	factory, calls := countingFactory(&fakeClient{}, nil)
	if _, err := CreateChatSession(context.Background(), withKey(), WithClientFactory(factory)); !errors.Is(err, credential.ErrMissingCredential) {
		t.Errorf("error = %v, want ErrMissingCredential", err)
	}
	if *calls != 0 {
		t.Errorf("factory calls = %d, want 0", *calls)
	}

	t.Setenv(testKeyEnv, "k")
	factory, _ = countingFactory(&fakeClient{err: errors.New("model not found")}, nil)
	_, err := CreateChatSession(context.Background(), withKey(), WithClientFactory(factory))
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Errorf("error = %v, want *ExecutionError", err)
	}
}
