package llm

import (
	"context"
	"sync"

	"github.com/leofalp/agentils/providers/ai"
)

// fakeClient records requests and replays one response or error.
type fakeClient struct {
	mu      sync.Mutex
	resp    *ai.Response
	err     error
	panics  bool
	models  []string
	prompts []string
	configs []*ai.RequestConfig
	session *fakeSession
}

func (f *fakeClient) GenerateContent(_ context.Context, model, prompt string, cfg *ai.RequestConfig) (*ai.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	f.prompts = append(f.prompts, prompt)
	f.configs = append(f.configs, cfg)
	if f.panics {
		panic("backend exploded")
	}
	return f.resp, f.err
}

func (f *fakeClient) CreateChat(_ context.Context, model string, cfg *ai.RequestConfig) (ai.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	f.configs = append(f.configs, cfg)
	if f.err != nil {
		return nil, f.err
	}
	f.session = &fakeSession{}
	return f.session, nil
}

type fakeSession struct {
	history []ai.Message
}

func (s *fakeSession) SendMessage(_ context.Context, text string) (*ai.Response, error) {
	reply := "echo: " + text
	s.history = append(s.history, ai.Message{Role: ai.RoleUser, Text: text}, ai.Message{Role: ai.RoleModel, Text: reply})
	return &ai.Response{Text: reply, RemoteCalls: 1}, nil
}

func (s *fakeSession) History() []ai.Message {
	return append([]ai.Message(nil), s.history...)
}

// countingFactory returns a factory that hands out client and counts calls.
func countingFactory(client ai.Client, err error) (ai.ClientFactory, *int) {
	calls := 0
	return func(_ context.Context, apiKey string) (ai.Client, error) {
		calls++
		if err != nil {
			return nil, err
		}
		return client, nil
	}, &calls
}
