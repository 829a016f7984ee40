package llm

import (
	"context"
	"fmt"

	"github.com/leofalp/agentils/core/credential"
	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/observability"
)

// CreateChatSession opens a multi-turn session with the configured model.
// Only the system instruction and tools (with the function-calling mode)
// are forwarded; the history lives in the backend session.
//
// Unlike [Wrap], setup failures are returned as errors: there is no reply
// to carry them yet.
func CreateChatSession(ctx context.Context, opts ...Option) (ai.ChatSession, error) {
	o := newOptions(opts...)

	apiKey, err := credential.Resolve(o.apiKey, o.sources...)
	if err != nil {
		return nil, err
	}

	ctx = observability.ContextWithObserver(ctx, o.observer)
	client, err := newClient(ctx, o.factory, apiKey)
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	cfg := o.chatConfig()
	if cfg.IsZero() {
		cfg = nil
	}
	session, err := client.CreateChat(ctx, o.model, cfg)
	if err != nil {
		return nil, &ExecutionError{Err: fmt.Errorf("create chat: %w", err)}
	}

	o.observer.Debug(ctx, "chat session created",
		observability.String(observability.AttrLLMModel, o.model),
		observability.Int(observability.AttrToolsCount, len(o.tools)),
	)
	return &observedSession{ChatSession: session, o: o}, nil
}

// observedSession puts the observer in the context of every turn.
type observedSession struct {
	ai.ChatSession
	o *options
}

func (s *observedSession) SendMessage(ctx context.Context, text string) (*ai.Response, error) {
	ctx, span := s.o.observer.StartSpan(observability.ContextWithObserver(ctx, s.o.observer), observability.SpanChatMessage,
		observability.String(observability.AttrLLMModel, s.o.model),
	)
	ctx = observability.ContextWithSpan(ctx, span)
	defer span.End()

	resp, err := s.ChatSession.SendMessage(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "send message failed")
		return nil, err
	}
	span.SetStatus(observability.StatusOK, "")
	return resp, nil
}
