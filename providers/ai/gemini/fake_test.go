package gemini

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"
)

// fakeModels replays scripted responses and records every request.
type fakeModels struct {
	mu        sync.Mutex
	responses []*genai.GenerateContentResponse
	err       error
	contents  [][]*genai.Content
	configs   []*genai.GenerateContentConfig
	models    []string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	f.contents = append(f.contents, append([]*genai.Content(nil), contents...))
	f.configs = append(f.configs, cfg)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeModels) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contents)
}

// fakeChat keeps a history like the SDK chat does.
type fakeChat struct {
	models  *fakeModels
	model   string
	config  *genai.GenerateContentConfig
	history []*genai.Content
}

func (c *fakeChat) SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	ptrs := make([]*genai.Part, len(parts))
	for i := range parts {
		ptrs[i] = &parts[i]
	}
	turn := genai.NewContentFromParts(ptrs, genai.RoleUser)
	resp, err := c.models.GenerateContent(ctx, c.model, append(c.history, turn), c.config)
	if err != nil {
		return nil, err
	}
	c.history = append(c.history, turn)
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		c.history = append(c.history, resp.Candidates[0].Content)
	}
	return resp, nil
}

func (c *fakeChat) History(bool) []*genai.Content {
	return c.history
}

func newFakeClient(models *fakeModels) *Client {
	return newClient(models, func(_ context.Context, model string, cfg *genai.GenerateContentConfig, history []*genai.Content) (chatAPI, error) {
		return &fakeChat{models: models, model: model, config: cfg, history: history}, nil
	})
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     3,
			CandidatesTokenCount: 2,
			TotalTokenCount:      5,
		},
	}
}

func callResponse(calls ...*genai.FunctionCall) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, len(calls))
	for i, c := range calls {
		parts[i] = &genai.Part{FunctionCall: c}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromParts(parts, genai.RoleModel),
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     4,
			CandidatesTokenCount: 1,
			TotalTokenCount:      5,
		},
	}
}
