package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/leofalp/agentils/providers/ai"
)

// CreateChat opens a genai chat. Output mode and function calling
// settings in cfg apply to every turn.
func (c *Client) CreateChat(ctx context.Context, model string, cfg *ai.RequestConfig) (ai.ChatSession, error) {
	gcfg, err := toGenerateContentConfig(cfg)
	if err != nil {
		return nil, err
	}
	chat, err := c.openChat(ctx, model, gcfg, nil)
	if err != nil {
		return nil, fmt.Errorf("create gemini chat: %w", err)
	}
	return &Chat{chat: chat, model: model, cfg: cfg}, nil
}

// Chat implements ai.ChatSession.
type Chat struct {
	chat  chatAPI
	model string
	cfg   *ai.RequestConfig
}

// SendMessage sends text and answers function calls on the same session.
func (s *Chat) SendMessage(ctx context.Context, text string) (*ai.Response, error) {
	return runLoop(ctx, s.model, s.cfg, func(ctx context.Context, parts []*genai.Part) (*genai.GenerateContentResponse, error) {
		if parts == nil {
			return s.chat.SendMessage(ctx, genai.Part{Text: text})
		}
		values := make([]genai.Part, len(parts))
		for i, p := range parts {
			values[i] = *p
		}
		return s.chat.SendMessage(ctx, values...)
	})
}

// History returns the full (uncurated) session history.
func (s *Chat) History() []ai.Message {
	return fromContents(s.chat.History(false))
}
